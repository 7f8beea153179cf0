package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/MrKriegler/insureflow/internal/core"
)

type ClaimRepo struct {
	client *dynamodb.Client
}

func NewClaimRepo(client *dynamodb.Client) *ClaimRepo {
	return &ClaimRepo{client: client}
}

// Create reserves claim#<application_id> and writes the claim atomically, so
// concurrent filings for one application yield exactly one claim.
func (r *ClaimRepo) Create(ctx context.Context, c core.Claim) error {
	return putUnique(ctx, r.client, TableClaims, claimItemFromCore(c),
		claimKey(c.ApplicationID), c.ID, core.ErrDuplicateClaim)
}

func (r *ClaimRepo) Get(ctx context.Context, id string) (core.Claim, error) {
	item, ok, err := getItem[ClaimItem](ctx, r.client, TableClaims, id)
	if err != nil {
		return core.Claim{}, err
	}
	if !ok {
		return core.Claim{}, core.ErrClaimNotFound
	}
	return item.ToCore(), nil
}

func (r *ClaimRepo) List(ctx context.Context, filter core.ClaimFilter) ([]core.Claim, error) {
	var (
		items []ClaimItem
		err   error
	)
	switch {
	case filter.ApplicationID != "":
		items, err = queryIndex[ClaimItem](ctx, r.client, TableClaims, GSIAppID, "application_id", filter.ApplicationID)
	case filter.CustomerID != "":
		items, err = queryIndex[ClaimItem](ctx, r.client, TableClaims, GSICustomer, "customer_id", filter.CustomerID)
	case filter.Status != "":
		items, err = queryIndex[ClaimItem](ctx, r.client, TableClaims, GSIStatus, "status", string(filter.Status))
	default:
		items, err = scanTable[ClaimItem](ctx, r.client, TableClaims)
		sortByDesc(items, func(i ClaimItem) string { return i.SubmittedAt + i.ID })
	}
	if err != nil {
		return nil, err
	}

	claims := make([]core.Claim, 0, len(items))
	for _, item := range items {
		switch {
		case filter.CustomerID != "" && item.CustomerID != filter.CustomerID,
			filter.ApplicationID != "" && item.ApplicationID != filter.ApplicationID,
			filter.Status != "" && item.Status != string(filter.Status):
			continue
		}
		claims = append(claims, item.ToCore())
	}
	return truncate(claims, filter.Limit), nil
}

func (r *ClaimRepo) Update(ctx context.Context, c core.Claim, from core.ClaimStatus) error {
	av, err := attributevalue.MarshalMap(claimItemFromCore(c))
	if err != nil {
		return fmt.Errorf("claims.marshal: %w", err)
	}
	cond := expression.AttributeExists(expression.Name("id")).
		And(expression.Name("status").Equal(expression.Value(string(from))))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("claims.buildExpr: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(TableClaims),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			if _, err := r.Get(ctx, c.ID); err != nil {
				return err
			}
			return core.ErrClaimChanged
		}
		return fmt.Errorf("claims.putItem: %w", err)
	}
	return nil
}
