package dynamodb

import (
	"context"
	"fmt"

	"fortunasbet-api/domain/core/entities"
	pkgerrors "fortunasbet-api/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// NotificationRepository stores per-user notifications in the user's partition
type NotificationRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

func NewNotificationRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type notificationItem struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	EntityType     string `dynamodbav:"EntityType"`
	NotificationID string `dynamodbav:"notification_id"`
	UserID         string `dynamodbav:"user_id"`
	Type           string `dynamodbav:"type"`
	Message        string `dynamodbav:"message"`
	RoomID         string `dynamodbav:"room_id,omitempty"`
	Viewed         bool   `dynamodbav:"viewed"`
	CreatedAt      int64  `dynamodbav:"created_at"`
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	item := notificationItem{
		PK:             userPK(n.UserID),
		SK:             notificationSK(n.ID),
		EntityType:     entityNotification,
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Message:        n.Message,
		RoomID:         n.RoomID,
		Viewed:         n.Viewed,
		CreatedAt:      n.CreatedAt,
	}
	if err := putItem(ctx, r.client, r.tableName, item, nil); err != nil {
		return pkgerrors.NewDatabaseError("create notification", err)
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Notification, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(notificationSK("")))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	raw, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list notifications", err)
	}

	var items []notificationItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notifications: %w", err)
	}

	notifications := make([]*entities.Notification, 0, len(items))
	for _, item := range items {
		notifications = append(notifications, &entities.Notification{
			ID:        item.NotificationID,
			UserID:    item.UserID,
			Type:      item.Type,
			Message:   item.Message,
			RoomID:    item.RoomID,
			Viewed:    item.Viewed,
			CreatedAt: item.CreatedAt,
		})
	}
	return notifications, nil
}

// Acknowledge marks a notification as viewed
func (r *NotificationRepository) Acknowledge(ctx context.Context, userID, notificationID string) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name("viewed"), expression.Value(true))).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       itemKey(userPK(userID), notificationSK(notificationID)),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotificationNotFoundError(notificationID)
		}
		r.logger.Error("Failed to acknowledge notification",
			zap.String("userID", userID),
			zap.String("notificationID", notificationID),
			zap.Error(err))
		return pkgerrors.NewDatabaseError("acknowledge notification", err)
	}
	return nil
}
