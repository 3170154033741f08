package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"

	"fortunasbet-api/domain/core/entities"
	pkgerrors "fortunasbet-api/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// AuditRepository stores audit records next to the entity they describe.
// Sort keys embed a zero-padded nanosecond timestamp so a descending query
// returns the newest records first.
type AuditRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

// NewAuditRepository creates a new DynamoDB audit repository
func NewAuditRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type auditItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	EntityType    string `dynamodbav:"EntityType"`
	AuditID       string `dynamodbav:"audit_id"`
	AuditedType   string `dynamodbav:"entity_type"`
	EntityID      string `dynamodbav:"entity_id"`
	UserID        string `dynamodbav:"user_id"`
	Action        string `dynamodbav:"action"`
	Before        string `dynamodbav:"before,omitempty"`
	After         string `dynamodbav:"after,omitempty"`
	Timestamp     string `dynamodbav:"timestamp"`
	TimestampUnix int64  `dynamodbav:"timestamp_unix"`
	SortNano      int64  `dynamodbav:"sort_nano"`
}

// auditPartition places room and membership records under the room and
// profile records under the user
func auditPartition(entityType, entityID string) string {
	if entityType == entities.AuditEntityUserProfile {
		return userPK(entityID)
	}
	return roomPK(entityID)
}

func auditSK(entityType string, nano int64, id string) string {
	return fmt.Sprintf("%s%019d#%s", auditPrefix(entityType), nano, id)
}

// Record stores an audit record
func (r *AuditRepository) Record(ctx context.Context, rec *entities.AuditRecord) error {
	nano := rec.TimestampUnix * 1e9
	if rec.TimestampNano > 0 {
		nano = rec.TimestampNano
	}

	item := auditItem{
		PK:            auditPartition(rec.EntityType, rec.EntityID),
		SK:            auditSK(rec.EntityType, nano, rec.ID),
		EntityType:    entityAudit,
		AuditID:       rec.ID,
		AuditedType:   rec.EntityType,
		EntityID:      rec.EntityID,
		UserID:        rec.UserID,
		Action:        rec.Action,
		Before:        string(rec.Before),
		After:         string(rec.After),
		Timestamp:     rec.Timestamp,
		TimestampUnix: rec.TimestampUnix,
		SortNano:      nano,
	}
	if err := putItem(ctx, r.client, r.tableName, item, nil); err != nil {
		return pkgerrors.NewDatabaseError("record audit", err)
	}
	return nil
}

// ListByEntity returns the trail of one entity, newest first
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entities.AuditRecord, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(auditPartition(entityType, entityID))).
		And(expression.Key("SK").BeginsWith(auditPrefix(entityType)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	raw, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list audit records", err)
	}

	var items []auditItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit records: %w", err)
	}

	records := make([]*entities.AuditRecord, 0, len(items))
	for _, item := range items {
		records = append(records, &entities.AuditRecord{
			ID:            item.AuditID,
			EntityType:    item.AuditedType,
			EntityID:      item.EntityID,
			UserID:        item.UserID,
			Action:        item.Action,
			Before:        rawJSON(item.Before),
			After:         rawJSON(item.After),
			Timestamp:     item.Timestamp,
			TimestampUnix: item.TimestampUnix,
			TimestampNano: item.SortNano,
		})
	}
	return records, nil
}

func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}
