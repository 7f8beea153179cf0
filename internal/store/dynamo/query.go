package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// queryIndex pages through every item of an index partition, newest range
// key first.
func queryIndex[T any](ctx context.Context, client *dynamodb.Client, table, index, hashAttr, hashValue string) ([]T, error) {
	keyCond := expression.Key(hashAttr).Equal(expression.Value(hashValue))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("%s.buildExpr: %w", table, err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}

	var out []T
	paginator := dynamodb.NewQueryPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s.query: %w", table, err)
		}
		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("%s.unmarshal: %w", table, err)
		}
		out = append(out, items...)
	}
	return out, nil
}

// scanTable reads a whole table.
func scanTable[T any](ctx context.Context, client *dynamodb.Client, table string) ([]T, error) {
	var out []T
	paginator := dynamodb.NewScanPaginator(client, &dynamodb.ScanInput{TableName: aws.String(table)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s.scan: %w", table, err)
		}
		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("%s.unmarshal: %w", table, err)
		}
		out = append(out, items...)
	}
	return out, nil
}

func getItem[T any](ctx context.Context, client *dynamodb.Client, table, id string) (T, bool, error) {
	var item T
	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return item, false, fmt.Errorf("%s.getItem: %w", table, err)
	}
	if out.Item == nil {
		return item, false, nil
	}
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return item, false, fmt.Errorf("%s.unmarshal: %w", table, err)
	}
	return item, true, nil
}

// putUnique writes item to table together with a reservation of uniqueKey in
// one transaction. errTaken is returned when the key is already reserved.
func putUnique(ctx context.Context, client *dynamodb.Client, table string, item any, uniqueKey, ownerID string, errTaken error) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("%s.marshal: %w", table, err)
	}
	keyAV, err := attributevalue.MarshalMap(UniqueKeyItem{Key: uniqueKey, OwnerID: ownerID})
	if err != nil {
		return fmt.Errorf("%s.marshal: %w", TableUniqueKeys, err)
	}

	err = transactWrite(ctx, client, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(TableUniqueKeys),
				Item:                keyAV,
				ConditionExpression: aws.String("attribute_not_exists(unique_key)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(table),
				Item:                av,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			}},
		},
	})
	if err != nil {
		return uniqueWriteError(err, table, errTaken, func() (bool, error) {
			return keyReserved(ctx, client, uniqueKey)
		})
	}
	return nil
}

// uniqueWriteError maps a failed reservation. When DynamoDB only reports a
// conflicting transaction, reserved decides whether the other writer won.
func uniqueWriteError(err error, table string, errTaken error, reserved func() (bool, error)) error {
	if cancellationCode(err, 0) == "ConditionalCheckFailed" {
		return errTaken
	}
	if isTransactionConflict(err) {
		taken, lookupErr := reserved()
		if lookupErr != nil {
			return fmt.Errorf("%s.transactWrite: %w", table, errors.Join(err, lookupErr))
		}
		if taken {
			return errTaken
		}
	}
	return fmt.Errorf("%s.transactWrite: %w", table, err)
}

func keyReserved(ctx context.Context, client *dynamodb.Client, uniqueKey string) (bool, error) {
	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableUniqueKeys),
		Key: map[string]types.AttributeValue{
			"unique_key": &types.AttributeValueMemberS{Value: uniqueKey},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("%s.getItem: %w", TableUniqueKeys, err)
	}
	return out.Item != nil, nil
}

type transactWriter interface {
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

const transactAttempts = 3

var transactBackoff = 20 * time.Millisecond

// transactWrite retries a transaction that was cancelled only because another
// transaction held one of its items. Condition failures are returned at once.
func transactWrite(ctx context.Context, tw transactWriter, in *dynamodb.TransactWriteItemsInput) error {
	for attempt := 1; ; attempt++ {
		_, err := tw.TransactWriteItems(ctx, in)
		if err == nil || !isTransactionConflict(err) || hasConditionFailure(err) || attempt == transactAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * transactBackoff):
		}
	}
}

func isTransactionConflict(err error) bool {
	var conflict *types.TransactionConflictException
	if errors.As(err, &conflict) {
		return true
	}
	return hasCancellationCode(err, "TransactionConflict")
}

func hasConditionFailure(err error) bool {
	return hasCancellationCode(err, "ConditionalCheckFailed")
}

func hasCancellationCode(err error, code string) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	for _, r := range tce.CancellationReasons {
		if aws.ToString(r.Code) == code {
			return true
		}
	}
	return false
}

// cancellationCode returns the reason code DynamoDB gave for the i-th item of a
// cancelled transaction, or "" when err is not a cancellation.
func cancellationCode(err error, i int) string {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) || i >= len(tce.CancellationReasons) {
		return ""
	}
	return aws.ToString(tce.CancellationReasons[i].Code)
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func truncate[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// sortByDesc orders scan results the way index queries return them.
func sortByDesc[T any](items []T, key func(T) string) {
	sort.Slice(items, func(i, j int) bool { return key(items[i]) > key(items[j]) })
}
