package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"fortunasbet-api/application/commands"
	"fortunasbet-api/application/ports/mocks"
	"fortunasbet-api/application/services"
	"fortunasbet-api/domain/core/entities"
	"fortunasbet-api/domain/core/valueobjects"
	pkgerrors "fortunasbet-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Helper function to create string pointer
func strPtr(s string) *string {
	return &s
}

type fixture struct {
	rooms         *mocks.MockRoomRepository
	memberships   *mocks.MockMembershipRepository
	profiles      *mocks.MockUserProfileRepository
	notifications *mocks.MockNotificationRepository
	audits        *mocks.MockAuditRepository
	events        *mocks.MockEventBus
	identity      *mocks.MockIdentityProvider
	audit         *services.AuditService
	notifier      *services.NotificationService
}

// newFixture wires mocks with permissive expectations for best-effort side effects
func newFixture() *fixture {
	f := &fixture{
		rooms:         new(mocks.MockRoomRepository),
		memberships:   new(mocks.MockMembershipRepository),
		profiles:      new(mocks.MockUserProfileRepository),
		notifications: new(mocks.MockNotificationRepository),
		audits:        new(mocks.MockAuditRepository),
		events:        new(mocks.MockEventBus),
		identity:      new(mocks.MockIdentityProvider),
	}
	f.audits.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.notifications.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.events.On("PublishBatch", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.audit = services.NewAuditService(f.audits, zap.NewNop())
	f.notifier = services.NewNotificationService(f.notifications, f.events, zap.NewNop())
	return f
}

func testRoom(t *testing.T) *entities.Room {
	t.Helper()
	room, err := entities.NewRoom("room-1", "owner-1", "Sunday Picks", []string{"NFL"}, 100, 200, false, "", time.Now())
	require.NoError(t, err)
	return room
}

func TestCreateRoomHandler_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	f.rooms.On("Create", ctx, mock.MatchedBy(func(r *entities.Room) bool {
		return r.ID == "room-1" && r.OwnerID == "user-1" && r.IsAdmin("user-1")
	})).Return(nil)
	f.memberships.On("Create", ctx, mock.MatchedBy(func(m *entities.Membership) bool {
		return m.UserID == "user-1" && m.IsApprovedAdmin()
	})).Return(nil)

	handler := NewCreateRoomHandler(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())

	// Act
	err := handler.Handle(ctx, commands.CreateRoomCommand{
		RoomID: "room-1", UserID: "user-1", Name: "Picks", Leagues: []string{"nfl"}, StartDate: 10, EndDate: 20,
	})

	// Assert
	require.NoError(t, err)
	f.rooms.AssertExpectations(t)
	f.memberships.AssertExpectations(t)
	f.events.AssertCalled(t, "PublishBatch", ctx, mock.Anything)
}

func TestCreateRoomHandler_InvalidDateRange(t *testing.T) {
	f := newFixture()
	handler := NewCreateRoomHandler(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())

	err := handler.Handle(context.Background(), commands.CreateRoomCommand{
		RoomID: "room-1", UserID: "user-1", Name: "Picks", Leagues: []string{"NFL"}, StartDate: 50, EndDate: 20,
	})

	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidDateRange))
	f.rooms.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRoomHandler_RollsBackWhenOwnerMembershipFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.rooms.On("Create", ctx, mock.Anything).Return(nil)
	f.memberships.On("Create", ctx, mock.Anything).Return(pkgerrors.NewDatabaseError("PutItem", errors.New("throttled")))
	f.rooms.On("Delete", ctx, "room-1").Return(nil)

	handler := NewCreateRoomHandler(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
	err := handler.Handle(ctx, commands.CreateRoomCommand{
		RoomID: "room-1", UserID: "user-1", Name: "Picks", Leagues: []string{"NBA"}, StartDate: 10, EndDate: 20,
	})

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
	f.rooms.AssertExpectations(t)
}

func TestEditRoomHandler_NonAdminForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.rooms.On("GetByID", ctx, "room-1").Return(testRoom(t), nil)

	handler := NewEditRoomHandler(f.rooms, f.audit, f.notifier, zap.NewNop())
	err := handler.Handle(ctx, commands.EditRoomCommand{RoomID: "room-1", UserID: "stranger", Name: strPtr("Mine")})

	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorizedRoomAccess))
	f.rooms.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEditRoomHandler_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.rooms.On("GetByID", ctx, "room-1").Return(testRoom(t), nil)
	f.rooms.On("Update", ctx, mock.MatchedBy(func(r *entities.Room) bool {
		return r.Name == "Renamed" && r.ModifiedAt > 0
	})).Return(nil)

	handler := NewEditRoomHandler(f.rooms, f.audit, f.notifier, zap.NewNop())
	err := handler.Handle(ctx, commands.EditRoomCommand{RoomID: "room-1", UserID: "owner-1", Name: strPtr("Renamed")})

	require.NoError(t, err)
	f.rooms.AssertExpectations(t)
	f.audits.AssertCalled(t, "Record", ctx, mock.Anything)
}

func TestDeleteRoomHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes room and memberships", func(t *testing.T) {
		f := newFixture()
		f.rooms.On("GetByID", ctx, "room-1").Return(testRoom(t), nil)
		f.memberships.On("DeleteByRoom", ctx, "room-1").Return(nil)
		f.rooms.On("Delete", ctx, "room-1").Return(nil)

		handler := NewDeleteRoomHandler(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		require.NoError(t, handler.Handle(ctx, commands.DeleteRoomCommand{RoomID: "room-1", UserID: "owner-1"}))
		f.rooms.AssertExpectations(t)
		f.memberships.AssertExpectations(t)
	})

	t.Run("admin who is not owner is forbidden", func(t *testing.T) {
		f := newFixture()
		room := testRoom(t)
		room.AddAdmin("admin-2", time.Now())
		f.rooms.On("GetByID", ctx, "room-1").Return(room, nil)

		handler := NewDeleteRoomHandler(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err := handler.Handle(ctx, commands.DeleteRoomCommand{RoomID: "room-1", UserID: "admin-2"})
		assert.True(t, pkgerrors.IsForbidden(err))
	})
}

func TestMembershipHandlers_CreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown room is not found", func(t *testing.T) {
		f := newFixture()
		f.rooms.On("GetByID", ctx, "missing").Return(nil, pkgerrors.NewRoomNotFoundError("missing"))

		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err := h.HandleCreateRequest(ctx, commands.CreateMembershipRequestCommand{RoomID: "missing", UserID: "user-2"})

		assert.Equal(t, 404, pkgerrors.StatusFor(err))
		f.memberships.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate is a conflict", func(t *testing.T) {
		f := newFixture()
		f.rooms.On("GetByID", ctx, "room-1").Return(testRoom(t), nil)
		f.memberships.On("Create", ctx, mock.Anything).Return(pkgerrors.NewMembershipExistsError("room-1", "user-2"))

		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err := h.HandleCreateRequest(ctx, commands.CreateMembershipRequestCommand{RoomID: "room-1", UserID: "user-2"})

		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeMembershipExists))
	})

	t.Run("admins are notified", func(t *testing.T) {
		f := newFixture()
		f.rooms.On("GetByID", ctx, "room-1").Return(testRoom(t), nil)
		f.memberships.On("Create", ctx, mock.MatchedBy(func(m *entities.Membership) bool {
			return m.Status == valueobjects.StatusPending && m.Type == valueobjects.TypeRequest
		})).Return(nil)

		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		require.NoError(t, h.HandleCreateRequest(ctx, commands.CreateMembershipRequestCommand{RoomID: "room-1", UserID: "user-2"}))

		f.notifications.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(n *entities.Notification) bool {
			return n.UserID == "owner-1" && n.Type == entities.NotificationMembershipRequest
		}))
	})
}

func TestMembershipHandlers_Respond(t *testing.T) {
	ctx := context.Background()
	pending := func(t *testing.T) *entities.Membership {
		m, err := entities.NewMembershipRequest(testRoom(t), "user-2", time.Now())
		require.NoError(t, err)
		return m
	}

	t.Run("non admin cannot approve", func(t *testing.T) {
		f := newFixture()
		f.rooms.On("GetByID", ctx, "room-1").Return(testRoom(t), nil)
		f.memberships.On("Get", ctx, "room-1", "user-2").Return(pending(t), nil)

		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err := h.HandleRespond(ctx, commands.RespondMembershipCommand{
			RoomID: "room-1", ActorID: "user-3", TargetUserID: "user-2", Approve: true,
		})

		assert.Equal(t, 403, pkgerrors.StatusFor(err))
		f.memberships.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin approves", func(t *testing.T) {
		f := newFixture()
		f.rooms.On("GetByID", ctx, "room-1").Return(testRoom(t), nil)
		f.memberships.On("Get", ctx, "room-1", "user-2").Return(pending(t), nil)
		f.memberships.On("UpdateIfStatus", ctx, mock.MatchedBy(func(m *entities.Membership) bool {
			return m.Status == valueobjects.StatusApproved && m.Type == valueobjects.TypeMember &&
				m.JoinDate > 0 && m.AdminID == "owner-1"
		}), valueobjects.StatusPending).Return(nil)

		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err := h.HandleRespond(ctx, commands.RespondMembershipCommand{
			RoomID: "room-1", ActorID: "owner-1", TargetUserID: "user-2", Approve: true,
		})

		require.NoError(t, err)
		f.memberships.AssertExpectations(t)
		f.notifications.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(n *entities.Notification) bool {
			return n.UserID == "user-2" && n.Type == entities.NotificationMembershipApproved
		}))
	})

	t.Run("non-admin on answered request is forbidden", func(t *testing.T) {
		f := newFixture()
		answered := pending(t)
		answered.Respond("owner-1", true, time.Now())
		f.rooms.On("GetByID", ctx, "room-1").Return(testRoom(t), nil)
		f.memberships.On("Get", ctx, "room-1", "user-2").Return(answered, nil)

		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err := h.HandleRespond(ctx, commands.RespondMembershipCommand{
			RoomID: "room-1", ActorID: "user-3", TargetUserID: "user-2", Approve: false,
		})

		assert.Equal(t, 403, pkgerrors.StatusFor(err))
	})

	t.Run("already answered is rejected", func(t *testing.T) {
		f := newFixture()
		answered := pending(t)
		answered.Respond("owner-1", false, time.Now())
		f.rooms.On("GetByID", ctx, "room-1").Return(testRoom(t), nil)
		f.memberships.On("Get", ctx, "room-1", "user-2").Return(answered, nil)

		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err := h.HandleRespond(ctx, commands.RespondMembershipCommand{
			RoomID: "room-1", ActorID: "owner-1", TargetUserID: "user-2", Approve: true,
		})

		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidMembershipStatus))
	})
}

func TestMembershipHandlers_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("promotion adds room admin", func(t *testing.T) {
		f := newFixture()
		member, err := entities.NewMembershipRequest(testRoom(t), "user-2", time.Now())
		require.NoError(t, err)
		member.Respond("owner-1", true, time.Now())

		f.rooms.On("GetByID", ctx, "room-1").Return(testRoom(t), nil)
		f.memberships.On("Get", ctx, "room-1", "user-2").Return(member, nil)
		f.memberships.On("Save", ctx, mock.Anything).Return(nil)
		f.rooms.On("Update", ctx, mock.MatchedBy(func(r *entities.Room) bool {
			return r.IsAdmin("user-2") && r.IsAdmin("owner-1")
		})).Return(nil)

		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err = h.HandleChangeStatus(ctx, commands.ChangeMemberStatusCommand{
			RoomID: "room-1", AdminID: "owner-1", TargetUserID: "user-2", NewStatus: "approved", NewMembershipType: "admin",
		})

		require.NoError(t, err)
		f.rooms.AssertExpectations(t)
	})

	t.Run("approval without type keeps room admin", func(t *testing.T) {
		// Arrange
		f := newFixture()
		room := testRoom(t)
		room.AddAdmin("user-2", time.Now())
		member, err := entities.NewMembershipRequest(room, "user-2", time.Now())
		require.NoError(t, err)
		member.Respond("owner-1", true, time.Now())

		f.rooms.On("GetByID", ctx, "room-1").Return(room, nil)
		f.memberships.On("Get", ctx, "room-1", "user-2").Return(member, nil)
		f.memberships.On("Save", ctx, mock.Anything).Return(nil)

		// Act
		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err = h.HandleChangeStatus(ctx, commands.ChangeMemberStatusCommand{
			RoomID: "room-1", AdminID: "owner-1", TargetUserID: "user-2", NewStatus: "approved",
		})

		// Assert
		require.NoError(t, err)
		f.rooms.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		assert.Equal(t, []string{"owner-1", "user-2"}, room.Admins)
	})

	t.Run("explicit member type demotes room admin", func(t *testing.T) {
		f := newFixture()
		room := testRoom(t)
		room.AddAdmin("user-2", time.Now())
		member, err := entities.NewMembershipRequest(room, "user-2", time.Now())
		require.NoError(t, err)
		member.Respond("owner-1", true, time.Now())

		f.rooms.On("GetByID", ctx, "room-1").Return(room, nil)
		f.memberships.On("Get", ctx, "room-1", "user-2").Return(member, nil)
		f.memberships.On("Save", ctx, mock.Anything).Return(nil)
		f.rooms.On("Update", ctx, mock.MatchedBy(func(r *entities.Room) bool {
			return !r.IsAdmin("user-2") && r.IsAdmin("owner-1")
		})).Return(nil)

		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err = h.HandleChangeStatus(ctx, commands.ChangeMemberStatusCommand{
			RoomID: "room-1", AdminID: "owner-1", TargetUserID: "user-2", NewStatus: "approved", NewMembershipType: "member",
		})

		require.NoError(t, err)
		f.rooms.AssertExpectations(t)
	})

	t.Run("room update failure restores membership", func(t *testing.T) {
		// Arrange
		f := newFixture()
		member, err := entities.NewMembershipRequest(testRoom(t), "user-2", time.Now())
		require.NoError(t, err)
		member.Respond("owner-1", true, time.Now())

		f.rooms.On("GetByID", ctx, "room-1").Return(testRoom(t), nil)
		f.memberships.On("Get", ctx, "room-1", "user-2").Return(member, nil)
		f.memberships.On("Save", ctx, mock.MatchedBy(func(m *entities.Membership) bool {
			return m.Type == valueobjects.TypeAdmin
		})).Return(nil).Once()
		f.memberships.On("Save", ctx, mock.MatchedBy(func(m *entities.Membership) bool {
			return m.Type == valueobjects.TypeMember && m.Status == valueobjects.StatusApproved
		})).Return(nil).Once()
		f.rooms.On("Update", ctx, mock.Anything).Return(errors.New("throttled"))

		// Act
		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err = h.HandleChangeStatus(ctx, commands.ChangeMemberStatusCommand{
			RoomID: "room-1", AdminID: "owner-1", TargetUserID: "user-2", NewStatus: "approved", NewMembershipType: "admin",
		})

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "throttled")
		f.memberships.AssertExpectations(t)
		f.memberships.AssertNumberOfCalls(t, "Save", 2)
		f.audits.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("invalid status rejected before lookups", func(t *testing.T) {
		f := newFixture()
		h := NewMembershipHandlers(f.rooms, f.memberships, f.audit, f.notifier, zap.NewNop())
		err := h.HandleChangeStatus(ctx, commands.ChangeMemberStatusCommand{
			RoomID: "room-1", AdminID: "owner-1", TargetUserID: "user-2", NewStatus: "banned",
		})
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidMembershipStatus))
		f.rooms.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestChangeMemberStatusCommand_SelfChangeRejected(t *testing.T) {
	err := commands.ChangeMemberStatusCommand{
		RoomID: "room-1", AdminID: "owner-1", TargetUserID: "owner-1", NewStatus: "denied",
	}.Validate()
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUserProfileHandlers_Ensure(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.profiles.On("Create", ctx, mock.MatchedBy(func(p *entities.UserProfile) bool {
		return p.UserID == "user-1" && p.Name == "alice" && p.Color == valueobjects.DefaultColor
	})).Return(true, nil)

	h := NewUserProfileHandlers(f.profiles, f.identity, f.audit, zap.NewNop())
	err := h.HandleEnsure(ctx, commands.EnsureUserProfileCommand{UserID: "user-1", Username: "alice"})

	require.NoError(t, err)
	f.profiles.AssertExpectations(t)
	f.audits.AssertCalled(t, "Record", ctx, mock.Anything)
}

func TestUserProfileHandlers_UpdateSyncsIdentity(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	profile, err := entities.NewUserProfile("user-1", "a@b.co", "Alice", time.Now())
	require.NoError(t, err)

	f.profiles.On("GetByID", ctx, "user-1").Return(profile, nil)
	f.profiles.On("Update", ctx, mock.Anything).Return(nil)
	f.identity.On("UpdateUserAttributes", ctx, "alice", map[string]string{"name": "Alicia"}).
		Return(errors.New("circuit breaker is open"))

	h := NewUserProfileHandlers(f.profiles, f.identity, f.audit, zap.NewNop())

	// Act
	err = h.HandleUpdate(ctx, commands.UpdateUserProfileCommand{UserID: "user-1", Username: "alice", Name: strPtr("Alicia")})

	// Assert
	require.NoError(t, err, "identity sync failures do not fail the update")
	f.identity.AssertExpectations(t)
}

func TestUserProfileHandlers_ColorOnlySkipsIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	profile, err := entities.NewUserProfile("user-1", "a@b.co", "Alice", time.Now())
	require.NoError(t, err)
	f.profiles.On("GetByID", ctx, "user-1").Return(profile, nil)
	f.profiles.On("Update", ctx, mock.MatchedBy(func(p *entities.UserProfile) bool { return p.Color == "blue" })).Return(nil)

	h := NewUserProfileHandlers(f.profiles, f.identity, f.audit, zap.NewNop())
	require.NoError(t, h.HandleUpdate(ctx, commands.UpdateUserProfileCommand{UserID: "user-1", Color: strPtr("BLUE")}))

	f.identity.AssertNotCalled(t, "UpdateUserAttributes", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcknowledgeNotificationHandler(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	repo.On("Acknowledge", ctx, "user-1", "n-1").Return(pkgerrors.NewNotificationNotFoundError("n-1"))

	h := NewAcknowledgeNotificationHandler(repo, zap.NewNop())
	err := h.Handle(ctx, commands.AcknowledgeNotificationCommand{UserID: "user-1", NotificationID: "n-1"})

	assert.True(t, pkgerrors.IsNotFound(err))
}
