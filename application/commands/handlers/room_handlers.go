package handlers

import (
	"context"
	"fmt"
	"time"

	"fortunasbet-api/application/commands"
	"fortunasbet-api/application/ports"
	"fortunasbet-api/application/services"
	"fortunasbet-api/domain/core/entities"
	"fortunasbet-api/domain/events"
	pkgerrors "fortunasbet-api/pkg/errors"

	"go.uber.org/zap"
)

// CreateRoomHandler handles room creation
type CreateRoomHandler struct {
	roomRepo       ports.RoomRepository
	membershipRepo ports.MembershipRepository
	audit          *services.AuditService
	notifier       *services.NotificationService
	logger         *zap.Logger
}

// NewCreateRoomHandler creates a new create room handler
func NewCreateRoomHandler(
	roomRepo ports.RoomRepository,
	membershipRepo ports.MembershipRepository,
	audit *services.AuditService,
	notifier *services.NotificationService,
	logger *zap.Logger,
) *CreateRoomHandler {
	return &CreateRoomHandler{
		roomRepo:       roomRepo,
		membershipRepo: membershipRepo,
		audit:          audit,
		notifier:       notifier,
		logger:         logger,
	}
}

// Handle creates the room and the owner's admin membership
func (h *CreateRoomHandler) Handle(ctx context.Context, cmd commands.CreateRoomCommand) error {
	now := time.Now()

	room, err := entities.NewRoom(cmd.RoomID, cmd.UserID, cmd.Name, cmd.Leagues,
		cmd.StartDate, cmd.EndDate, cmd.Public, cmd.Description, now)
	if err != nil {
		return err
	}

	if err := h.roomRepo.Create(ctx, room); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	owner := entities.NewOwnerMembership(room, now)
	if err := h.membershipRepo.Create(ctx, owner); err != nil {
		// Without the owner membership the room is unusable, so roll it back
		if delErr := h.roomRepo.Delete(ctx, room.ID); delErr != nil {
			h.logger.Error("Failed to roll back room after membership failure",
				zap.String("roomID", room.ID),
				zap.Error(delErr),
			)
		}
		return fmt.Errorf("failed to create owner membership: %w", err)
	}

	h.audit.Record(ctx, entities.AuditEntityRoom, room.ID, cmd.UserID, entities.AuditActionCreate, nil, room)
	h.audit.Record(ctx, entities.AuditEntityMembership, room.ID, cmd.UserID, entities.AuditActionCreate, nil, owner)
	h.notifier.Publish(ctx, events.NewRoomCreated(room.ID, room.OwnerID, room.Name, room.Leagues, room.Public, now))

	h.logger.Info("Room created",
		zap.String("roomID", room.ID),
		zap.String("userID", cmd.UserID),
		zap.Strings("leagues", room.Leagues),
	)
	return nil
}

// EditRoomHandler handles room edits by admins
type EditRoomHandler struct {
	roomRepo ports.RoomRepository
	audit    *services.AuditService
	notifier *services.NotificationService
	logger   *zap.Logger
}

// NewEditRoomHandler creates a new edit room handler
func NewEditRoomHandler(
	roomRepo ports.RoomRepository,
	audit *services.AuditService,
	notifier *services.NotificationService,
	logger *zap.Logger,
) *EditRoomHandler {
	return &EditRoomHandler{
		roomRepo: roomRepo,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
	}
}

// Handle applies the edit after checking the caller administers the room
func (h *EditRoomHandler) Handle(ctx context.Context, cmd commands.EditRoomCommand) error {
	room, err := h.roomRepo.GetByID(ctx, cmd.RoomID)
	if err != nil {
		return err
	}
	if !room.IsAdmin(cmd.UserID) {
		return pkgerrors.NewUnauthorizedRoomAccessError("only room admins can edit the room")
	}

	before := room.Clone()
	now := time.Now()
	changed, err := room.ApplyUpdate(entities.RoomUpdate{
		Name:        cmd.Name,
		Leagues:     cmd.Leagues,
		Admins:      cmd.Admins,
		StartDate:   cmd.StartDate,
		EndDate:     cmd.EndDate,
		Public:      cmd.Public,
		Description: cmd.Description,
	}, now)
	if err != nil {
		return err
	}

	if err := h.roomRepo.Update(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	h.audit.Record(ctx, entities.AuditEntityRoom, room.ID, cmd.UserID, entities.AuditActionUpdate, before, room)
	h.notifier.Publish(ctx, events.NewRoomUpdated(room.ID, cmd.UserID, changed, now))

	h.logger.Info("Room updated",
		zap.String("roomID", room.ID),
		zap.String("userID", cmd.UserID),
		zap.Strings("changed", changed),
	)
	return nil
}

// DeleteRoomHandler handles room deletion by the owner
type DeleteRoomHandler struct {
	roomRepo       ports.RoomRepository
	membershipRepo ports.MembershipRepository
	audit          *services.AuditService
	notifier       *services.NotificationService
	logger         *zap.Logger
}

// NewDeleteRoomHandler creates a new delete room handler
func NewDeleteRoomHandler(
	roomRepo ports.RoomRepository,
	membershipRepo ports.MembershipRepository,
	audit *services.AuditService,
	notifier *services.NotificationService,
	logger *zap.Logger,
) *DeleteRoomHandler {
	return &DeleteRoomHandler{
		roomRepo:       roomRepo,
		membershipRepo: membershipRepo,
		audit:          audit,
		notifier:       notifier,
		logger:         logger,
	}
}

// Handle deletes memberships first so a failure never leaves orphans behind a missing room
func (h *DeleteRoomHandler) Handle(ctx context.Context, cmd commands.DeleteRoomCommand) error {
	room, err := h.roomRepo.GetByID(ctx, cmd.RoomID)
	if err != nil {
		return err
	}
	if !room.IsOwner(cmd.UserID) {
		return pkgerrors.NewUnauthorizedRoomAccessError("only the room owner can delete the room")
	}

	if err := h.membershipRepo.DeleteByRoom(ctx, room.ID); err != nil {
		return fmt.Errorf("failed to delete room memberships: %w", err)
	}
	if err := h.roomRepo.Delete(ctx, room.ID); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	h.audit.Record(ctx, entities.AuditEntityRoom, room.ID, cmd.UserID, entities.AuditActionDelete, room, nil)
	h.notifier.Publish(ctx, events.NewRoomDeleted(room.ID, cmd.UserID, time.Now()))

	h.logger.Info("Room deleted", zap.String("roomID", room.ID), zap.String("userID", cmd.UserID))
	return nil
}
