package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Table names
const (
	TablePolicies     = "insureflow_policies"
	TableApplications = "insureflow_applications"
	TableClaims       = "insureflow_claims"
	TableReviews      = "insureflow_reviews"
	TableTransactions = "insureflow_transactions"
	TableUniqueKeys   = "insureflow_unique_keys" // one item per claimed natural key
)

// GSI names
const (
	GSICustomer = "customer_id-index"
	GSIAgent    = "assigned_agent_id-index"
	GSIStatus   = "status-index"
	GSIPolicy   = "policy_id-index"
	GSIAppID    = "application_id-index"
)

type gsi struct {
	name, hash, rng string
}

type tableSpec struct {
	name    string
	hashKey string
	indexes []gsi
}

var tableSpecs = []tableSpec{
	{name: TablePolicies, hashKey: "id"},
	{name: TableApplications, hashKey: "id", indexes: []gsi{
		{GSICustomer, "customer_id", "applied_at"},
		{GSIAgent, "assigned_agent_id", "applied_at"},
		{GSIStatus, "status", "applied_at"},
	}},
	{name: TableClaims, hashKey: "id", indexes: []gsi{
		{GSICustomer, "customer_id", "submitted_at"},
		{GSIStatus, "status", "submitted_at"},
		{GSIAppID, "application_id", ""},
	}},
	{name: TableReviews, hashKey: "id", indexes: []gsi{
		{GSIPolicy, "policy_id", "created_at"},
	}},
	{name: TableTransactions, hashKey: "id", indexes: []gsi{
		{GSICustomer, "customer_id", "paid_at"},
	}},
	{name: TableUniqueKeys, hashKey: "unique_key"},
}

// EnsureTables creates all required tables if they don't exist.
func EnsureTables(ctx context.Context, client *dynamodb.Client, log *slog.Logger) error {
	for _, spec := range tableSpecs {
		exists, err := tableExists(ctx, client, spec.name)
		if err != nil {
			return fmt.Errorf("check table %s: %w", spec.name, err)
		}
		if exists {
			log.Info("table exists", "table", spec.name)
			continue
		}

		log.Info("creating table", "table", spec.name)
		if _, err := client.CreateTable(ctx, createTableInput(spec)); err != nil {
			return fmt.Errorf("create table %s: %w", spec.name, err)
		}
		log.Info("table created", "table", spec.name)
	}

	return nil
}

func tableExists(ctx context.Context, client *dynamodb.Client, name string) (bool, error) {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func createTableInput(spec tableSpec) *dynamodb.CreateTableInput {
	attrs := map[string]bool{spec.hashKey: true}
	defs := []types.AttributeDefinition{
		{AttributeName: aws.String(spec.hashKey), AttributeType: types.ScalarAttributeTypeS},
	}
	define := func(name string) {
		if name == "" || attrs[name] {
			return
		}
		attrs[name] = true
		defs = append(defs, types.AttributeDefinition{
			AttributeName: aws.String(name),
			AttributeType: types.ScalarAttributeTypeS,
		})
	}

	var indexes []types.GlobalSecondaryIndex
	for _, idx := range spec.indexes {
		define(idx.hash)
		define(idx.rng)
		keys := []types.KeySchemaElement{
			{AttributeName: aws.String(idx.hash), KeyType: types.KeyTypeHash},
		}
		if idx.rng != "" {
			keys = append(keys, types.KeySchemaElement{AttributeName: aws.String(idx.rng), KeyType: types.KeyTypeRange})
		}
		indexes = append(indexes, types.GlobalSecondaryIndex{
			IndexName:  aws.String(idx.name),
			KeySchema:  keys,
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}

	return &dynamodb.CreateTableInput{
		TableName: aws.String(spec.name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(spec.hashKey), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions:   defs,
		GlobalSecondaryIndexes: indexes,
		BillingMode:            types.BillingModePayPerRequest,
	}
}
