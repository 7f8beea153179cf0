package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/MrKriegler/insureflow/internal/core"
)

type ApplicationRepo struct {
	client *dynamodb.Client
}

func NewApplicationRepo(client *dynamodb.Client) *ApplicationRepo {
	return &ApplicationRepo{client: client}
}

func (r *ApplicationRepo) Create(ctx context.Context, app core.Application) error {
	av, err := attributevalue.MarshalMap(applicationItemFromCore(app))
	if err != nil {
		return fmt.Errorf("applications.marshal: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("applications.buildExpr: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(TableApplications),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return core.ErrApplicationExists
		}
		return fmt.Errorf("applications.putItem: %w", err)
	}
	return nil
}

func (r *ApplicationRepo) Get(ctx context.Context, id string) (core.Application, error) {
	item, ok, err := getItem[ApplicationItem](ctx, r.client, TableApplications, id)
	if err != nil {
		return core.Application{}, err
	}
	if !ok {
		return core.Application{}, core.ErrApplicationNotFound
	}
	return item.ToCore(), nil
}

// List queries the most selective index available and applies the remaining
// filters in process.
func (r *ApplicationRepo) List(ctx context.Context, filter core.ApplicationFilter) ([]core.Application, error) {
	var (
		items []ApplicationItem
		err   error
	)
	switch {
	case filter.CustomerID != "":
		items, err = queryIndex[ApplicationItem](ctx, r.client, TableApplications, GSICustomer, "customer_id", filter.CustomerID)
	case filter.AgentID != "":
		items, err = queryIndex[ApplicationItem](ctx, r.client, TableApplications, GSIAgent, "assigned_agent_id", filter.AgentID)
	case filter.Status != "":
		items, err = queryIndex[ApplicationItem](ctx, r.client, TableApplications, GSIStatus, "status", string(filter.Status))
	default:
		items, err = scanTable[ApplicationItem](ctx, r.client, TableApplications)
		sortByDesc(items, func(i ApplicationItem) string { return i.AppliedAt + i.ID })
	}
	if err != nil {
		return nil, err
	}

	apps := make([]core.Application, 0, len(items))
	for _, item := range items {
		switch {
		case filter.CustomerID != "" && item.CustomerID != filter.CustomerID,
			filter.AgentID != "" && item.AssignedAgentID != filter.AgentID,
			filter.PolicyID != "" && item.PolicyID != filter.PolicyID,
			filter.Status != "" && item.Status != string(filter.Status),
			filter.Unassigned && item.AssignedAgentID != "":
			continue
		}
		apps = append(apps, item.ToCore())
	}
	return truncate(apps, filter.Limit), nil
}

// Update overwrites the item only while its stored status and assigned agent
// still match prev.
func (r *ApplicationRepo) Update(ctx context.Context, app core.Application, prev core.ApplicationState) error {
	put, err := r.casPut(app, prev)
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 put.TableName,
		Item:                      put.Item,
		ConditionExpression:       put.ConditionExpression,
		ExpressionAttributeNames:  put.ExpressionAttributeNames,
		ExpressionAttributeValues: put.ExpressionAttributeValues,
	})
	if err != nil {
		if isConditionFailed(err) {
			return r.casFailure(ctx, app.ID)
		}
		return fmt.Errorf("applications.putItem: %w", err)
	}
	return nil
}

// Approve writes the application and increments the policy purchase counter
// in one TransactWriteItems call.
func (r *ApplicationRepo) Approve(ctx context.Context, app core.Application, prev core.ApplicationState) error {
	put, err := r.casPut(app, prev)
	if err != nil {
		return err
	}

	inc := expression.Add(expression.Name("purchase_count"), expression.Value(1))
	exists := expression.AttributeExists(expression.Name("id"))
	incExpr, err := expression.NewBuilder().WithUpdate(inc).WithCondition(exists).Build()
	if err != nil {
		return fmt.Errorf("policies.buildExpr: %w", err)
	}

	err = transactWrite(ctx, r.client, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: put},
			{Update: &types.Update{
				TableName: aws.String(TablePolicies),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: app.PolicyID},
				},
				UpdateExpression:          incExpr.Update(),
				ConditionExpression:       incExpr.Condition(),
				ExpressionAttributeNames:  incExpr.Names(),
				ExpressionAttributeValues: incExpr.Values(),
			}},
		},
	})
	if err != nil {
		return approveWriteError(err, func() error { return r.casFailure(ctx, app.ID) })
	}
	return nil
}

// approveWriteError maps a cancelled approve transaction. A conflict that
// outlasted the retries means another write to the application or its policy
// was in flight, so the caller must reload.
func approveWriteError(err error, changed func() error) error {
	switch {
	case cancellationCode(err, 0) == "ConditionalCheckFailed":
		return changed()
	case cancellationCode(err, 1) == "ConditionalCheckFailed":
		return core.ErrPolicyNotFound
	case isTransactionConflict(err):
		return changed()
	}
	return fmt.Errorf("applications.transactWrite: %w", err)
}

func (r *ApplicationRepo) casPut(app core.Application, prev core.ApplicationState) (*types.Put, error) {
	av, err := attributevalue.MarshalMap(applicationItemFromCore(app))
	if err != nil {
		return nil, fmt.Errorf("applications.marshal: %w", err)
	}
	expr, err := expression.NewBuilder().WithCondition(casCondition(prev)).Build()
	if err != nil {
		return nil, fmt.Errorf("applications.buildExpr: %w", err)
	}
	return &types.Put{
		TableName:                 aws.String(TableApplications),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, nil
}

// casCondition matches the item only in the state it was read in. The agent
// attribute is absent on unassigned items.
func casCondition(prev core.ApplicationState) expression.ConditionBuilder {
	agent := expression.AttributeNotExists(expression.Name("assigned_agent_id"))
	if prev.AssignedAgentID != "" {
		agent = expression.Name("assigned_agent_id").Equal(expression.Value(prev.AssignedAgentID))
	}
	return expression.AttributeExists(expression.Name("id")).
		And(expression.Name("status").Equal(expression.Value(string(prev.Status)))).
		And(agent)
}

func (r *ApplicationRepo) casFailure(ctx context.Context, id string) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return core.ErrApplicationChanged
}
