package dynamodb

import (
	"context"
	"fmt"

	"fortunasbet-api/domain/core/entities"
	"fortunasbet-api/domain/core/valueobjects"
	pkgerrors "fortunasbet-api/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// MembershipRepository implements membership persistence using DynamoDB.
// Memberships live in the room's partition and are indexed by user on the GSI.
type MembershipRepository struct {
	client    DynamoDBAPI
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewMembershipRepository creates a new DynamoDB membership repository
func NewMembershipRepository(client DynamoDBAPI, tableName, indexName string, logger *zap.Logger) *MembershipRepository {
	return &MembershipRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

type membershipItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	GSI1PK      string `dynamodbav:"GSI1PK"`
	GSI1SK      string `dynamodbav:"GSI1SK"`
	EntityType  string `dynamodbav:"EntityType"`
	RoomID      string `dynamodbav:"room_id"`
	RoomName    string `dynamodbav:"room_name,omitempty"`
	Requestor   string `dynamodbav:"requestor"`
	InvitedUser string `dynamodbav:"invited_user,omitempty"`
	AdminID     string `dynamodbav:"admin_id,omitempty"`
	Type        string `dynamodbav:"membership_type"`
	Status      string `dynamodbav:"status"`
	JoinDate    int64  `dynamodbav:"join_date,omitempty"`
	CreatedAt   int64  `dynamodbav:"created_at"`
	UpdatedAt   int64  `dynamodbav:"updated_at,omitempty"`
}

func toMembershipItem(m *entities.Membership) membershipItem {
	return membershipItem{
		PK:          roomPK(m.RoomID),
		SK:          membershipSK(m.UserID),
		GSI1PK:      userPK(m.UserID),
		GSI1SK:      membershipGSISK(m.RoomID),
		EntityType:  entityMembership,
		RoomID:      m.RoomID,
		RoomName:    m.RoomName,
		Requestor:   m.UserID,
		InvitedUser: m.InvitedUser,
		AdminID:     m.AdminID,
		Type:        string(m.Type),
		Status:      string(m.Status),
		JoinDate:    m.JoinDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (i membershipItem) toEntity() *entities.Membership {
	return &entities.Membership{
		RoomID:      i.RoomID,
		RoomName:    i.RoomName,
		UserID:      i.Requestor,
		InvitedUser: i.InvitedUser,
		AdminID:     i.AdminID,
		Type:        valueobjects.MembershipType(i.Type),
		Status:      valueobjects.MembershipStatus(i.Status),
		JoinDate:    i.JoinDate,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// Create stores a membership if the user has none in the room
func (r *MembershipRepository) Create(ctx context.Context, m *entities.Membership) error {
	cond, err := notExistsCondition()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	if err := putItem(ctx, r.client, r.tableName, toMembershipItem(m), &cond); err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewMembershipExistsError(m.RoomID, m.UserID)
		}
		r.logger.Error("Failed to create membership",
			zap.String("roomID", m.RoomID),
			zap.String("userID", m.UserID),
			zap.Error(err))
		return pkgerrors.NewDatabaseError("create membership", err)
	}
	return nil
}

// Get retrieves the membership of userID in roomID
func (r *MembershipRepository) Get(ctx context.Context, roomID, userID string) (*entities.Membership, error) {
	var item membershipItem
	found, err := getItem(ctx, r.client, r.tableName, roomPK(roomID), membershipSK(userID), &item)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get membership", err)
	}
	if !found {
		return nil, pkgerrors.NewMembershipNotFoundError(roomID, userID)
	}
	return item.toEntity(), nil
}

// UpdateIfStatus writes m only while the stored status still equals expected.
// A concurrent answer makes the condition fail.
func (r *MembershipRepository) UpdateIfStatus(ctx context.Context, m *entities.Membership, expected valueobjects.MembershipStatus) error {
	cond, err := expression.NewBuilder().
		WithCondition(expression.Name("status").Equal(expression.Value(string(expected)))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	if err := putItem(ctx, r.client, r.tableName, toMembershipItem(m), &cond); err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewInvalidMembershipStatusError(
				fmt.Sprintf("membership is no longer %s", expected))
		}
		return pkgerrors.NewDatabaseError("update membership", err)
	}
	return nil
}

// Save overwrites a membership
func (r *MembershipRepository) Save(ctx context.Context, m *entities.Membership) error {
	if err := putItem(ctx, r.client, r.tableName, toMembershipItem(m), nil); err != nil {
		return pkgerrors.NewDatabaseError("save membership", err)
	}
	return nil
}

// ListByRoom returns every membership in the room's partition
func (r *MembershipRepository) ListByRoom(ctx context.Context, roomID string) ([]*entities.Membership, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(roomPK(roomID))).
		And(expression.Key("SK").BeginsWith(membershipSK("")))
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
		return nil, pkgerrors.NewDatabaseError("list room memberships", err)
	}
	return unmarshalMemberships(raw)
}

// ListByUser returns every membership held by userID using the GSI
func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Membership, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("GSI1SK").BeginsWith(membershipGSISK("")))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	raw, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list user memberships", err)
	}
	return unmarshalMemberships(raw)
}

// DeleteByRoom removes every membership of a room
func (r *MembershipRepository) DeleteByRoom(ctx context.Context, roomID string) error {
	memberships, err := r.ListByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if len(memberships) == 0 {
		return nil
	}

	keys := make([]map[string]types.AttributeValue, 0, len(memberships))
	for _, m := range memberships {
		keys = append(keys, itemKey(roomPK(roomID), membershipSK(m.UserID)))
	}

	if err := batchDelete(ctx, r.client, r.tableName, keys); err != nil {
		r.logger.Error("Failed to delete room memberships", zap.String("roomID", roomID), zap.Error(err))
		return pkgerrors.NewDatabaseError("delete room memberships", err)
	}

	r.logger.Debug("Room memberships deleted",
		zap.String("roomID", roomID),
		zap.Int("count", len(keys)))
	return nil
}

func unmarshalMemberships(raw []map[string]types.AttributeValue) ([]*entities.Membership, error) {
	var items []membershipItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memberships: %w", err)
	}
	memberships := make([]*entities.Membership, 0, len(items))
	for _, item := range items {
		memberships = append(memberships, item.toEntity())
	}
	return memberships, nil
}
