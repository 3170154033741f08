package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the subset of the DynamoDB client the repositories use
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Entity types stored in the EntityType attribute
const (
	entityRoom         = "ROOM"
	entityMembership   = "MEMBERSHIP"
	entityUserProfile  = "USER_PROFILE"
	entityNotification = "NOTIFICATION"
	entityAudit        = "AUDIT"
)

const (
	batchWriteLimit = 25
	batchGetLimit   = 100
	maxBatchRetries = 5
)

// batchRetryDelay is the base backoff between retries of unprocessed batch items
var batchRetryDelay = 50 * time.Millisecond

func roomPK(roomID string) string          { return "ROOM#" + roomID }
func userPK(userID string) string          { return "USER#" + userID }
func membershipSK(userID string) string    { return "MEMBERSHIP#" + userID }
func notificationSK(id string) string      { return "NOTIFICATION#" + id }
func auditPrefix(entityType string) string { return fmt.Sprintf("AUDIT#%s#", entityType) }
func membershipGSISK(roomID string) string { return "MEMBERSHIP#" + roomID }

const (
	roomSK        = "ROOM"
	userProfileSK = "USER_PROFILE"
)

func itemKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// isConditionalCheckFailed reports whether a write lost its condition
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func notExistsCondition() (expression.Expression, error) {
	return expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("PK"))).
		Build()
}

func existsCondition() (expression.Expression, error) {
	return expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
}

// putItem marshals item and writes it, applying cond when non-nil
func putItem(ctx context.Context, client DynamoDBAPI, table string, item interface{}, cond *expression.Expression) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	}
	if cond != nil {
		input.ConditionExpression = cond.Condition()
		input.ExpressionAttributeNames = cond.Names()
		input.ExpressionAttributeValues = cond.Values()
	}

	_, err = client.PutItem(ctx, input)
	return err
}

// getItem loads a single item into out, reporting whether it exists
func getItem(ctx context.Context, client DynamoDBAPI, table, pk, sk string, out interface{}) (bool, error) {
	result, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       itemKey(pk, sk),
	})
	if err != nil {
		return false, err
	}
	if len(result.Item) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return true, nil
}

// queryAll runs a query across every page
func queryAll(ctx context.Context, client DynamoDBAPI, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// scanAll runs a scan across every page
func scanAll(ctx context.Context, client DynamoDBAPI, input *dynamodb.ScanInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewScanPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// batchDelete removes keys in chunks, retrying unprocessed items with backoff
func batchDelete(ctx context.Context, client DynamoDBAPI, table string, keys []map[string]types.AttributeValue) error {
	for start := 0; start < len(keys); start += batchWriteLimit {
		end := min(start+batchWriteLimit, len(keys))

		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
		}

		pending := map[string][]types.WriteRequest{table: requests}
		for attempt := 0; len(pending[table]) > 0; attempt++ {
			if attempt > maxBatchRetries {
				return fmt.Errorf("%d delete requests left unprocessed", len(pending[table]))
			}
			if attempt > 0 {
				if err := sleepCtx(ctx, batchRetryDelay*time.Duration(1<<(attempt-1))); err != nil {
					return err
				}
			}

			out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return err
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}

// batchGet loads keys in chunks, retrying unprocessed keys with backoff
func batchGet(ctx context.Context, client DynamoDBAPI, table string, keys []map[string]types.AttributeValue) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for start := 0; start < len(keys); start += batchGetLimit {
		end := min(start+batchGetLimit, len(keys))

		pending := map[string]types.KeysAndAttributes{table: {Keys: keys[start:end]}}
		for attempt := 0; len(pending[table].Keys) > 0; attempt++ {
			if attempt > maxBatchRetries {
				return nil, fmt.Errorf("%d keys left unprocessed", len(pending[table].Keys))
			}
			if attempt > 0 {
				if err := sleepCtx(ctx, batchRetryDelay*time.Duration(1<<(attempt-1))); err != nil {
					return nil, err
				}
			}

			out, err := client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: pending})
			if err != nil {
				return nil, err
			}
			items = append(items, out.Responses[table]...)
			pending = out.UnprocessedKeys
		}
	}
	return items, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
