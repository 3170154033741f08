package services

import (
	"context"
	"fmt"
	"time"

	"fortunasbet-api/application/ports"
	"fortunasbet-api/domain/core/entities"
	"fortunasbet-api/domain/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService fans membership activity out to the users it concerns
// and publishes the matching domain events. Delivery is best effort.
type NotificationService struct {
	notificationRepo ports.NotificationRepository
	eventBus         ports.EventBus
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo ports.NotificationRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		eventBus:         eventBus,
		logger:           logger,
	}
}

// Notify stores one notification per recipient
func (s *NotificationService) Notify(ctx context.Context, recipients []string, notificationType, message, roomID string) {
	now := time.Now()
	for _, userID := range recipients {
		n := entities.NewNotification(uuid.New().String(), userID, notificationType, message, roomID, now)
		if err := s.notificationRepo.Create(ctx, n); err != nil {
			s.logger.Warn("Failed to store notification",
				zap.String("userID", userID),
				zap.String("type", notificationType),
				zap.Error(err),
			)
		}
	}
}

// Publish sends domain events, logging instead of failing
func (s *NotificationService) Publish(ctx context.Context, evts ...events.DomainEvent) {
	if len(evts) == 0 {
		return
	}
	if err := s.eventBus.PublishBatch(ctx, evts); err != nil {
		s.logger.Warn("Failed to publish events",
			zap.Int("count", len(evts)),
			zap.String("firstType", evts[0].GetEventType()),
			zap.Error(err),
		)
	}
}

// MembershipRequestedMessage is shown to room admins
func MembershipRequestedMessage(userID, roomName string) string {
	return fmt.Sprintf("User %s requested to join %s", userID, roomName)
}

// MembershipAnsweredMessage is shown to the requestor once an admin decides
func MembershipAnsweredMessage(roomName string, approved bool) string {
	if approved {
		return fmt.Sprintf("Your request to join %s was approved", roomName)
	}
	return fmt.Sprintf("Your request to join %s was denied", roomName)
}

// InvitationMessage is shown to an invited user
func InvitationMessage(adminID, roomName string) string {
	return fmt.Sprintf("User %s invited you to join %s", adminID, roomName)
}

// InvitationAnsweredMessage is shown to the inviting admin
func InvitationAnsweredMessage(userID, roomName string, accepted bool) string {
	if accepted {
		return fmt.Sprintf("User %s accepted your invitation to %s", userID, roomName)
	}
	return fmt.Sprintf("User %s declined your invitation to %s", userID, roomName)
}
