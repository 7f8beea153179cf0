package dynamo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/MrKriegler/insureflow/internal/core"
)

type PolicyRepo struct {
	client *dynamodb.Client
}

func NewPolicyRepo(client *dynamodb.Client) *PolicyRepo {
	return &PolicyRepo{client: client}
}

func (r *PolicyRepo) Create(ctx context.Context, p core.Policy) error {
	av, err := attributevalue.MarshalMap(policyItemFromCore(p))
	if err != nil {
		return fmt.Errorf("policies.marshal: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("policies.buildExpr: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(TablePolicies),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return core.ErrPolicyExists
		}
		return fmt.Errorf("policies.putItem: %w", err)
	}
	return nil
}

func (r *PolicyRepo) Get(ctx context.Context, id string) (core.Policy, error) {
	item, ok, err := getItem[PolicyItem](ctx, r.client, TablePolicies, id)
	if err != nil {
		return core.Policy{}, err
	}
	if !ok {
		return core.Policy{}, core.ErrPolicyNotFound
	}
	return item.ToCore(), nil
}

// Update sets the editable attributes; purchase_count is only ever ADDed to.
func (r *PolicyRepo) Update(ctx context.Context, p core.Policy) error {
	item := policyItemFromCore(p)
	update := expression.
		Set(expression.Name("title"), expression.Value(item.Title)).
		Set(expression.Name("category"), expression.Value(item.Category)).
		Set(expression.Name("description"), expression.Value(item.Description)).
		Set(expression.Name("min_age"), expression.Value(item.MinAge)).
		Set(expression.Name("max_age"), expression.Value(item.MaxAge)).
		Set(expression.Name("min_coverage"), expression.Value(item.MinCoverage)).
		Set(expression.Name("max_coverage"), expression.Value(item.MaxCoverage)).
		Set(expression.Name("durations"), expression.Value(item.Durations)).
		Set(expression.Name("base_rate"), expression.Value(item.BaseRate)).
		Set(expression.Name("updated_at"), expression.Value(item.UpdatedAt))
	cond := expression.AttributeExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("policies.buildExpr: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(TablePolicies),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: p.ID},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return core.ErrPolicyNotFound
		}
		return fmt.Errorf("policies.updateItem: %w", err)
	}
	return nil
}

// List scans the catalog and filters in process; the catalog is small.
func (r *PolicyRepo) List(ctx context.Context, filter core.PolicyFilter) ([]core.Policy, error) {
	items, err := scanTable[PolicyItem](ctx, r.client, TablePolicies)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	policies := make([]core.Policy, 0, len(items))
	for _, item := range items {
		p := item.ToCore()
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		policies = append(policies, p)
	}

	sort.Slice(policies, func(i, j int) bool {
		if filter.Sort == core.PolicySortPopular && policies[i].PurchaseCount != policies[j].PurchaseCount {
			return policies[i].PurchaseCount > policies[j].PurchaseCount
		}
		if !policies[i].CreatedAt.Equal(policies[j].CreatedAt) {
			return policies[i].CreatedAt.After(policies[j].CreatedAt)
		}
		return policies[i].ID > policies[j].ID
	})
	return truncate(policies, filter.Limit), nil
}
