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

// RoomRepository implements room persistence using DynamoDB
type RoomRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

// NewRoomRepository creates a new DynamoDB room repository
func NewRoomRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *RoomRepository {
	return &RoomRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// roomItem represents a room in DynamoDB
type roomItem struct {
	PK          string   `dynamodbav:"PK"`
	SK          string   `dynamodbav:"SK"`
	EntityType  string   `dynamodbav:"EntityType"`
	RoomID      string   `dynamodbav:"room_id"`
	RoomName    string   `dynamodbav:"room_name"`
	Leagues     []string `dynamodbav:"leagues"`
	StartDate   int64    `dynamodbav:"start_date"`
	EndDate     int64    `dynamodbav:"end_date"`
	Public      bool     `dynamodbav:"public"`
	Description string   `dynamodbav:"description,omitempty"`
	OwnerID     string   `dynamodbav:"owner_id"`
	Admins      []string `dynamodbav:"admins"`
	CreatedAt   int64    `dynamodbav:"created_at"`
	ModifiedAt  int64    `dynamodbav:"modified_at,omitempty"`
}

func toRoomItem(room *entities.Room) roomItem {
	return roomItem{
		PK:          roomPK(room.ID),
		SK:          roomSK,
		EntityType:  entityRoom,
		RoomID:      room.ID,
		RoomName:    room.Name,
		Leagues:     room.Leagues,
		StartDate:   room.StartDate,
		EndDate:     room.EndDate,
		Public:      room.Public,
		Description: room.Description,
		OwnerID:     room.OwnerID,
		Admins:      room.Admins,
		CreatedAt:   room.CreatedAt,
		ModifiedAt:  room.ModifiedAt,
	}
}

func (i roomItem) toEntity() *entities.Room {
	leagues := i.Leagues
	if leagues == nil {
		leagues = []string{}
	}
	admins := i.Admins
	if admins == nil {
		admins = []string{}
	}
	return &entities.Room{
		ID:          i.RoomID,
		Name:        i.RoomName,
		Leagues:     leagues,
		StartDate:   i.StartDate,
		EndDate:     i.EndDate,
		Public:      i.Public,
		Description: i.Description,
		OwnerID:     i.OwnerID,
		Admins:      admins,
		CreatedAt:   i.CreatedAt,
		ModifiedAt:  i.ModifiedAt,
	}
}

// Create stores a new room
func (r *RoomRepository) Create(ctx context.Context, room *entities.Room) error {
	cond, err := notExistsCondition()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	if err := putItem(ctx, r.client, r.tableName, toRoomItem(room), &cond); err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError(fmt.Sprintf("room %s already exists", room.ID))
		}
		r.logger.Error("Failed to create room", zap.String("roomID", room.ID), zap.Error(err))
		return pkgerrors.NewDatabaseError("create room", err)
	}

	r.logger.Debug("Room created", zap.String("roomID", room.ID))
	return nil
}

// GetByID retrieves a room
func (r *RoomRepository) GetByID(ctx context.Context, roomID string) (*entities.Room, error) {
	var item roomItem
	found, err := getItem(ctx, r.client, r.tableName, roomPK(roomID), roomSK, &item)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get room", err)
	}
	if !found {
		return nil, pkgerrors.NewRoomNotFoundError(roomID)
	}
	return item.toEntity(), nil
}

// Update overwrites an existing room
func (r *RoomRepository) Update(ctx context.Context, room *entities.Room) error {
	cond, err := existsCondition()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	if err := putItem(ctx, r.client, r.tableName, toRoomItem(room), &cond); err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewRoomNotFoundError(room.ID)
		}
		r.logger.Error("Failed to update room", zap.String("roomID", room.ID), zap.Error(err))
		return pkgerrors.NewDatabaseError("update room", err)
	}
	return nil
}

// Delete removes a room item
func (r *RoomRepository) Delete(ctx context.Context, roomID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(roomPK(roomID), roomSK),
	})
	if err != nil {
		r.logger.Error("Failed to delete room", zap.String("roomID", roomID), zap.Error(err))
		return pkgerrors.NewDatabaseError("delete room", err)
	}
	return nil
}

// List scans every room item
func (r *RoomRepository) List(ctx context.Context) ([]*entities.Room, error) {
	filter := expression.Name("SK").Equal(expression.Value(roomSK)).
		And(expression.Name("EntityType").Equal(expression.Value(entityRoom)))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter: %w", err)
	}

	raw, err := scanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list rooms", err)
	}

	var items []roomItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rooms: %w", err)
	}

	rooms := make([]*entities.Room, 0, len(items))
	for _, item := range items {
		rooms = append(rooms, item.toEntity())
	}
	return rooms, nil
}
