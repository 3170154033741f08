package handlers

import (
	"context"
	"fmt"
	"sort"

	"fortunasbet-api/application/ports"
	"fortunasbet-api/application/queries"
	"fortunasbet-api/domain/core/entities"
	"fortunasbet-api/domain/core/valueobjects"
	pkgerrors "fortunasbet-api/pkg/errors"

	"go.uber.org/zap"
)

// RoomQueryHandler handles room read queries
type RoomQueryHandler struct {
	roomRepo  ports.RoomRepository
	auditRepo ports.AuditRepository
	logger    *zap.Logger
}

// NewRoomQueryHandler creates a new room query handler
func NewRoomQueryHandler(
	roomRepo ports.RoomRepository,
	auditRepo ports.AuditRepository,
	logger *zap.Logger,
) *RoomQueryHandler {
	return &RoomQueryHandler{
		roomRepo:  roomRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// HandleGetRoom returns a single room
func (h *RoomQueryHandler) HandleGetRoom(ctx context.Context, query queries.GetRoomQuery) (*entities.Room, error) {
	return h.roomRepo.GetByID(ctx, query.RoomID)
}

// HandleListRooms returns all rooms, newest first
func (h *RoomQueryHandler) HandleListRooms(ctx context.Context, _ queries.ListRoomsQuery) ([]*entities.Room, error) {
	rooms, err := h.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt > rooms[j].CreatedAt
	})
	return rooms, nil
}

// HandleListValidLeagues returns the supported leagues
func (h *RoomQueryHandler) HandleListValidLeagues(_ context.Context, _ queries.ListValidLeaguesQuery) ([]string, error) {
	return valueobjects.SupportedLeagueNames(), nil
}

// HandleGetRoomAudit returns room and membership audit records, newest first
func (h *RoomQueryHandler) HandleGetRoomAudit(ctx context.Context, query queries.GetRoomAuditQuery) ([]*entities.AuditRecord, error) {
	room, err := h.roomRepo.GetByID(ctx, query.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.IsAdmin(query.UserID) {
		return nil, pkgerrors.NewUnauthorizedRoomAccessError("only room admins can view the audit trail")
	}

	var records []*entities.AuditRecord
	for _, entityType := range []string{entities.AuditEntityRoom, entities.AuditEntityMembership} {
		batch, err := h.auditRepo.ListByEntity(ctx, entityType, room.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s audit records: %w", entityType, err)
		}
		records = append(records, batch...)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].TimestampUnix != records[j].TimestampUnix {
			return records[i].TimestampUnix > records[j].TimestampUnix
		}
		return records[i].TimestampNano > records[j].TimestampNano
	})
	return records, nil
}
