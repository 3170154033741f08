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

// UserProfileRepository implements profile persistence using DynamoDB
type UserProfileRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

// NewUserProfileRepository creates a new DynamoDB profile repository
func NewUserProfileRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *UserProfileRepository {
	return &UserProfileRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type userProfileItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	EntityType   string `dynamodbav:"EntityType"`
	UserID       string `dynamodbav:"user_id"`
	Email        string `dynamodbav:"email"`
	Name         string `dynamodbav:"name"`
	Color        string `dynamodbav:"color"`
	CreatedAt    int64  `dynamodbav:"created_at"`
	LastActiveAt int64  `dynamodbav:"last_active_at,omitempty"`
}

func (i userProfileItem) toEntity() *entities.UserProfile {
	color := valueobjects.ProfileColor(i.Color)
	if color == "" {
		color = valueobjects.DefaultColor
	}
	return &entities.UserProfile{
		UserID:       i.UserID,
		Email:        i.Email,
		Name:         i.Name,
		Color:        color,
		CreatedAt:    i.CreatedAt,
		LastActiveAt: i.LastActiveAt,
	}
}

// Create stores the profile unless one already exists.
// It returns false without error when the profile was already there.
func (r *UserProfileRepository) Create(ctx context.Context, profile *entities.UserProfile) (bool, error) {
	cond, err := notExistsCondition()
	if err != nil {
		return false, fmt.Errorf("failed to build condition: %w", err)
	}

	item := userProfileItem{
		PK:           userPK(profile.UserID),
		SK:           userProfileSK,
		EntityType:   entityUserProfile,
		UserID:       profile.UserID,
		Email:        profile.Email,
		Name:         profile.Name,
		Color:        string(profile.Color),
		CreatedAt:    profile.CreatedAt,
		LastActiveAt: profile.LastActiveAt,
	}
	if err := putItem(ctx, r.client, r.tableName, item, &cond); err != nil {
		if isConditionalCheckFailed(err) {
			return false, nil
		}
		r.logger.Error("Failed to create user profile", zap.String("userID", profile.UserID), zap.Error(err))
		return false, pkgerrors.NewDatabaseError("create user profile", err)
	}

	r.logger.Info("User profile created", zap.String("userID", profile.UserID))
	return true, nil
}

// GetByID retrieves a profile
func (r *UserProfileRepository) GetByID(ctx context.Context, userID string) (*entities.UserProfile, error) {
	var item userProfileItem
	found, err := getItem(ctx, r.client, r.tableName, userPK(userID), userProfileSK, &item)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get user profile", err)
	}
	if !found {
		return nil, pkgerrors.NewUserNotFoundError(userID)
	}
	return item.toEntity(), nil
}

// Update writes the editable fields of an existing profile
func (r *UserProfileRepository) Update(ctx context.Context, profile *entities.UserProfile) error {
	update := expression.Set(expression.Name("name"), expression.Value(profile.Name)).
		Set(expression.Name("email"), expression.Value(profile.Email)).
		Set(expression.Name("color"), expression.Value(string(profile.Color)))

	return r.update(ctx, profile.UserID, "update user profile", update)
}

// Touch sets last_active_at on an existing profile
func (r *UserProfileRepository) Touch(ctx context.Context, userID string, at int64) error {
	update := expression.Set(expression.Name("last_active_at"), expression.Value(at))
	return r.update(ctx, userID, "touch user profile", update)
}

func (r *UserProfileRepository) update(ctx context.Context, userID, operation string, update expression.UpdateBuilder) error {
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       itemKey(userPK(userID), userProfileSK),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewUserNotFoundError(userID)
		}
		return pkgerrors.NewDatabaseError(operation, err)
	}
	return nil
}

// GetByIDs loads several profiles with BatchGetItem. Unknown ids are skipped.
func (r *UserProfileRepository) GetByIDs(ctx context.Context, userIDs []string) (map[string]*entities.UserProfile, error) {
	profiles := make(map[string]*entities.UserProfile, len(userIDs))

	seen := make(map[string]struct{}, len(userIDs))
	keys := make([]map[string]types.AttributeValue, 0, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, itemKey(userPK(id), userProfileSK))
	}
	if len(keys) == 0 {
		return profiles, nil
	}

	raw, err := batchGet(ctx, r.client, r.tableName, keys)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("batch get user profiles", err)
	}

	var items []userProfileItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user profiles: %w", err)
	}
	for _, item := range items {
		profiles[item.UserID] = item.toEntity()
	}
	return profiles, nil
}
