package handlers

import (
	"context"
	"fmt"
	"time"

	"fortunasbet-api/application/commands"
	"fortunasbet-api/application/ports"
	"fortunasbet-api/application/services"
	"fortunasbet-api/domain/core/entities"
	"fortunasbet-api/domain/core/valueobjects"
	"fortunasbet-api/domain/events"
	pkgerrors "fortunasbet-api/pkg/errors"

	"go.uber.org/zap"
)

// MembershipHandlers groups the membership command handlers, which share dependencies
type MembershipHandlers struct {
	roomRepo       ports.RoomRepository
	membershipRepo ports.MembershipRepository
	audit          *services.AuditService
	notifier       *services.NotificationService
	logger         *zap.Logger
}

// NewMembershipHandlers creates the membership command handlers
func NewMembershipHandlers(
	roomRepo ports.RoomRepository,
	membershipRepo ports.MembershipRepository,
	audit *services.AuditService,
	notifier *services.NotificationService,
	logger *zap.Logger,
) *MembershipHandlers {
	return &MembershipHandlers{
		roomRepo:       roomRepo,
		membershipRepo: membershipRepo,
		audit:          audit,
		notifier:       notifier,
		logger:         logger,
	}
}

// HandleCreateRequest records a pending join request and tells the room admins
func (h *MembershipHandlers) HandleCreateRequest(ctx context.Context, cmd commands.CreateMembershipRequestCommand) error {
	room, err := h.roomRepo.GetByID(ctx, cmd.RoomID)
	if err != nil {
		return err
	}

	now := time.Now()
	membership, err := entities.NewMembershipRequest(room, cmd.UserID, now)
	if err != nil {
		return err
	}

	// The conditional write rejects duplicates, including concurrent ones
	if err := h.membershipRepo.Create(ctx, membership); err != nil {
		return err
	}

	h.audit.Record(ctx, entities.AuditEntityMembership, room.ID, cmd.UserID, entities.AuditActionCreate, nil, membership)
	h.notifier.Notify(ctx, room.Admins, entities.NotificationMembershipRequest,
		services.MembershipRequestedMessage(cmd.UserID, room.Name), room.ID)
	h.notifier.Publish(ctx, events.NewMembershipEvent(events.TypeMembershipRequested, room.ID, cmd.UserID, cmd.UserID,
		string(membership.Status), string(membership.Type), now))

	h.logger.Info("Membership requested", zap.String("roomID", room.ID), zap.String("userID", cmd.UserID))
	return nil
}

// HandleInvite creates a pending invitation on behalf of a room admin
func (h *MembershipHandlers) HandleInvite(ctx context.Context, cmd commands.InviteUserCommand) error {
	room, err := h.roomRepo.GetByID(ctx, cmd.RoomID)
	if err != nil {
		return err
	}
	if !room.IsAdmin(cmd.AdminID) {
		return pkgerrors.NewUnauthorizedRoomAccessError("only room admins can invite users")
	}

	now := time.Now()
	invitation, err := entities.NewInvitation(room, cmd.AdminID, cmd.TargetUserID, now)
	if err != nil {
		return err
	}
	if err := h.membershipRepo.Create(ctx, invitation); err != nil {
		return err
	}

	h.audit.Record(ctx, entities.AuditEntityMembership, room.ID, cmd.AdminID, entities.AuditActionCreate, nil, invitation)
	h.notifier.Notify(ctx, []string{cmd.TargetUserID}, entities.NotificationRoomInvitation,
		services.InvitationMessage(cmd.AdminID, room.Name), room.ID)
	h.notifier.Publish(ctx, events.NewMembershipEvent(events.TypeMemberInvited, room.ID, cmd.TargetUserID, cmd.AdminID,
		string(invitation.Status), string(invitation.Type), now))

	h.logger.Info("User invited",
		zap.String("roomID", room.ID),
		zap.String("adminID", cmd.AdminID),
		zap.String("userID", cmd.TargetUserID),
	)
	return nil
}

// HandleRespond approves or denies a pending request or invitation
func (h *MembershipHandlers) HandleRespond(ctx context.Context, cmd commands.RespondMembershipCommand) error {
	room, err := h.roomRepo.GetByID(ctx, cmd.RoomID)
	if err != nil {
		return err
	}
	membership, err := h.membershipRepo.Get(ctx, cmd.RoomID, cmd.TargetUserID)
	if err != nil {
		return err
	}
	if err := membership.CanRespond(room, cmd.ActorID); err != nil {
		return err
	}

	before := *membership
	wasInvitation := membership.Type == valueobjects.TypeInvitation
	now := time.Now()
	membership.Respond(cmd.ActorID, cmd.Approve, now)

	// A concurrent answer flips the stored status first and makes this write fail
	if err := h.membershipRepo.UpdateIfStatus(ctx, membership, valueobjects.StatusPending); err != nil {
		return err
	}

	h.audit.Record(ctx, entities.AuditEntityMembership, room.ID, cmd.ActorID, entities.AuditActionUpdate, &before, membership)

	if wasInvitation {
		h.notifier.Notify(ctx, []string{membership.AdminID}, entities.NotificationInvitationAnswered,
			services.InvitationAnsweredMessage(membership.UserID, room.Name, cmd.Approve), room.ID)
	} else {
		notificationType := entities.NotificationMembershipDenied
		if cmd.Approve {
			notificationType = entities.NotificationMembershipApproved
		}
		h.notifier.Notify(ctx, []string{membership.UserID}, notificationType,
			services.MembershipAnsweredMessage(room.Name, cmd.Approve), room.ID)
	}

	eventType := events.TypeMembershipDenied
	if cmd.Approve {
		eventType = events.TypeMembershipApproved
	}
	h.notifier.Publish(ctx, events.NewMembershipEvent(eventType, room.ID, membership.UserID, cmd.ActorID,
		string(membership.Status), string(membership.Type), now))

	h.logger.Info("Membership answered",
		zap.String("roomID", room.ID),
		zap.String("userID", membership.UserID),
		zap.String("actorID", cmd.ActorID),
		zap.String("status", string(membership.Status)),
	)
	return nil
}

// HandleChangeStatus lets an admin move a member between states and roles,
// keeping the room's admin list in step with admin memberships
func (h *MembershipHandlers) HandleChangeStatus(ctx context.Context, cmd commands.ChangeMemberStatusCommand) error {
	status, err := valueobjects.ParseMembershipStatus(cmd.NewStatus)
	if err != nil {
		return err
	}
	var newType valueobjects.MembershipType
	if cmd.NewMembershipType != "" {
		if newType, err = valueobjects.ParseMembershipType(cmd.NewMembershipType); err != nil {
			return err
		}
	}

	room, err := h.roomRepo.GetByID(ctx, cmd.RoomID)
	if err != nil {
		return err
	}
	if !room.IsAdmin(cmd.AdminID) {
		return pkgerrors.NewUnauthorizedRoomAccessError("only room admins can change member status")
	}
	membership, err := h.membershipRepo.Get(ctx, cmd.RoomID, cmd.TargetUserID)
	if err != nil {
		return err
	}

	before := *membership
	now := time.Now()
	membership.ChangeStatus(cmd.AdminID, status, newType, now)

	roomBefore := room.Clone()
	roomChanged := false
	switch {
	case membership.IsApprovedAdmin() && !room.IsAdmin(membership.UserID):
		room.AddAdmin(membership.UserID, now)
		roomChanged = true
	case demotesAdmin(status, newType) && room.IsAdmin(membership.UserID):
		if err := room.RemoveAdmin(membership.UserID, now); err != nil {
			return err
		}
		roomChanged = true
	}

	if err := h.membershipRepo.Save(ctx, membership); err != nil {
		return fmt.Errorf("failed to save membership: %w", err)
	}
	if roomChanged {
		if err := h.roomRepo.Update(ctx, room); err != nil {
			if restoreErr := h.membershipRepo.Save(ctx, &before); restoreErr != nil {
				h.logger.Error("Failed to restore membership after room update failure",
					zap.String("room_id", room.ID),
					zap.String("user_id", membership.UserID),
					zap.Error(restoreErr))
			}
			return fmt.Errorf("failed to update room admins: %w", err)
		}
		h.audit.Record(ctx, entities.AuditEntityRoom, room.ID, cmd.AdminID, entities.AuditActionUpdate, roomBefore, room)
	}

	h.audit.Record(ctx, entities.AuditEntityMembership, room.ID, cmd.AdminID, entities.AuditActionUpdate, &before, membership)
	h.notifier.Publish(ctx, events.NewMembershipEvent(events.TypeMemberStatusChanged, room.ID, membership.UserID, cmd.AdminID,
		string(membership.Status), string(membership.Type), now))

	h.logger.Info("Member status changed",
		zap.String("roomID", room.ID),
		zap.String("userID", membership.UserID),
		zap.String("status", string(membership.Status)),
		zap.String("type", string(membership.Type)),
	)
	return nil
}

// demotesAdmin reports whether a status change takes admin rights away.
// Approving without a type keeps whatever rights the room already grants.
func demotesAdmin(status valueobjects.MembershipStatus, newType valueobjects.MembershipType) bool {
	if status != valueobjects.StatusApproved {
		return true
	}
	return newType != "" && newType != valueobjects.TypeAdmin
}
