package handlers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fortunasbet-api/application/ports"
	"fortunasbet-api/application/queries"
	"fortunasbet-api/domain/core/entities"

	"go.uber.org/zap"
)

// UserQueryHandler handles profile and notification reads
type UserQueryHandler struct {
	profileRepo      ports.UserProfileRepository
	notificationRepo ports.NotificationRepository
	logger           *zap.Logger
}

// NewUserQueryHandler creates a new user query handler
func NewUserQueryHandler(
	profileRepo ports.UserProfileRepository,
	notificationRepo ports.NotificationRepository,
	logger *zap.Logger,
) *UserQueryHandler {
	return &UserQueryHandler{
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// HandleGetUserProfile returns the caller's profile and records the activity
func (h *UserQueryHandler) HandleGetUserProfile(ctx context.Context, query queries.GetUserProfileQuery) (*entities.UserProfile, error) {
	profile, err := h.profileRepo.GetByID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	if err := h.profileRepo.Touch(ctx, query.UserID, now); err != nil {
		h.logger.Warn("Failed to refresh last activity", zap.String("userID", query.UserID), zap.Error(err))
	} else {
		profile.LastActiveAt = now
	}
	return profile, nil
}

// HandleGetPublicProfile returns the fields of a profile other users may see
func (h *UserQueryHandler) HandleGetPublicProfile(ctx context.Context, query queries.GetPublicProfileQuery) (*entities.PublicProfile, error) {
	profile, err := h.profileRepo.GetByID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	public := profile.Public()
	return &public, nil
}

// HandleListNotifications returns the caller's notifications, newest first
func (h *UserQueryHandler) HandleListNotifications(ctx context.Context, query queries.ListNotificationsQuery) (*queries.NotificationList, error) {
	notifications, err := h.notificationRepo.ListByUser(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt > notifications[j].CreatedAt
	})

	result := &queries.NotificationList{
		Notifications: notifications,
		Count:         len(notifications),
	}
	for _, n := range notifications {
		if !n.Viewed {
			result.Unread++
		}
	}
	if result.Notifications == nil {
		result.Notifications = []*entities.Notification{}
	}
	return result, nil
}
