package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fortunasbet-api/application/ports/mocks"
	"fortunasbet-api/domain/core/entities"
	"fortunasbet-api/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestAuditService_Record(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockAuditRepository)
	repo.On("Record", ctx, mock.MatchedBy(func(r *entities.AuditRecord) bool {
		return r.EntityType == entities.AuditEntityRoom && r.EntityID == "room-1" &&
			r.Action == entities.AuditActionCreate && r.Before == nil && len(r.After) > 0
	})).Return(nil)

	svc := NewAuditService(repo, zap.NewNop())

	// Act
	svc.Record(ctx, entities.AuditEntityRoom, "room-1", "user-1", entities.AuditActionCreate, nil, map[string]string{"room_name": "x"})

	// Assert
	repo.AssertExpectations(t)
}

func TestAuditService_RecordFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockAuditRepository)
	repo.On("Record", ctx, mock.Anything).Return(errors.New("throttled"))

	svc := NewAuditService(repo, zap.NewNop())

	assert.NotPanics(t, func() {
		svc.Record(ctx, entities.AuditEntityRoom, "room-1", "user-1", entities.AuditActionDelete, nil, nil)
	})
	repo.AssertExpectations(t)
}

func TestNotificationService_NotifyEachRecipient(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	bus := new(mocks.MockEventBus)
	repo.On("Create", ctx, mock.MatchedBy(func(n *entities.Notification) bool { return n.UserID == "admin-1" })).Return(nil)
	repo.On("Create", ctx, mock.MatchedBy(func(n *entities.Notification) bool { return n.UserID == "admin-2" })).
		Return(errors.New("boom"))

	svc := NewNotificationService(repo, bus, zap.NewNop())

	// Act
	svc.Notify(ctx, []string{"admin-1", "admin-2"}, entities.NotificationMembershipRequest, "hi", "room-1")

	// Assert
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestNotificationService_Publish(t *testing.T) {
	ctx := context.Background()
	bus := new(mocks.MockEventBus)
	bus.On("PublishBatch", ctx, mock.AnythingOfType("[]events.DomainEvent")).Return(errors.New("breaker open"))

	svc := NewNotificationService(new(mocks.MockNotificationRepository), bus, zap.NewNop())
	svc.Publish(ctx)
	svc.Publish(ctx, events.NewRoomDeleted("room-1", "user-1", time.Now()))

	bus.AssertNumberOfCalls(t, "PublishBatch", 1)
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Your request to join Picks was approved", MembershipAnsweredMessage("Picks", true))
	assert.Equal(t, "User u1 declined your invitation to Picks", InvitationAnsweredMessage("u1", "Picks", false))
}
