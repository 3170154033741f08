package handlers

import (
	"fmt"
	"net/http"

	"fortunasbet-api/application/commands"
	"fortunasbet-api/application/commands/bus"
	"fortunasbet-api/application/queries"
	querybus "fortunasbet-api/application/queries/bus"
	"fortunasbet-api/domain/core/entities"
	pkgerrors "fortunasbet-api/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoomHandler handles room-related HTTP requests
type RoomHandler struct {
	base
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *RoomHandler {
	return &RoomHandler{base{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}}
}

// CreateRoomRequest represents the request body for creating a room.
// League names and the date range are checked by the domain.
type CreateRoomRequest struct {
	RoomName    string   `json:"room_name" validate:"required,min=1,max=100"`
	Leagues     []string `json:"leagues"`
	StartDate   int64    `json:"start_date" validate:"required,gt=0"`
	EndDate     int64    `json:"end_date" validate:"required,gt=0"`
	Public      bool     `json:"public"`
	Description string   `json:"description" validate:"max=500"`
}

// EditRoomRequest represents the request body for editing a room
type EditRoomRequest struct {
	RoomName    *string   `json:"room_name,omitempty" validate:"omitempty,min=1,max=100"`
	Leagues     *[]string `json:"leagues,omitempty"`
	Admins      *[]string `json:"admins,omitempty"`
	StartDate   *int64    `json:"start_date,omitempty" validate:"omitempty,gt=0"`
	EndDate     *int64    `json:"end_date,omitempty" validate:"omitempty,gt=0"`
	Public      *bool     `json:"public,omitempty"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r EditRoomRequest) empty() bool {
	return r.RoomName == nil && r.Leagues == nil && r.Admins == nil && r.StartDate == nil &&
		r.EndDate == nil && r.Public == nil && r.Description == nil
}

// CreateRoom handles POST /room/create_room
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req CreateRoomRequest
	if !h.decode(w, r, &req) {
		return
	}

	roomID := uuid.New().String()
	cmd := commands.CreateRoomCommand{
		RoomID:      roomID,
		UserID:      user.UserID,
		Name:        req.RoomName,
		Leagues:     req.Leagues,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Public:      req.Public,
		Description: req.Description,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	room, err := h.queryBus.Ask(r.Context(), queries.GetRoomQuery{RoomID: roomID})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Room created successfully",
		"room":    room,
	})
}

// GetRoom handles GET /room/get_room/{room_id}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.queryBus.Ask(r.Context(), queries.GetRoomQuery{RoomID: chi.URLParam(r, "room_id")})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"room": room})
}

// EditRoom handles PUT /room/edit_room/{room_id}
func (h *RoomHandler) EditRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req EditRoomRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.empty() {
		h.respondError(w, r, pkgerrors.NewNoFieldsToUpdateError())
		return
	}

	roomID := chi.URLParam(r, "room_id")
	cmd := commands.EditRoomCommand{
		RoomID:      roomID,
		UserID:      user.UserID,
		Name:        req.RoomName,
		Leagues:     req.Leagues,
		Admins:      req.Admins,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Public:      req.Public,
		Description: req.Description,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	room, err := h.queryBus.Ask(r.Context(), queries.GetRoomQuery{RoomID: roomID})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Room updated successfully",
		"room":    room,
	})
}

// DeleteRoom handles DELETE /room/delete_room/{room_id}
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	roomID := chi.URLParam(r, "room_id")
	if err := h.commandBus.Send(r.Context(), commands.DeleteRoomCommand{RoomID: roomID, UserID: user.UserID}); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Room deleted successfully",
		"room_id": roomID,
	})
}

// ListRooms handles GET /room/get_all_rooms
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListRoomsQuery{})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	rooms := result.([]*entities.Room)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// ListValidLeagues handles GET /room/get_valid_leagues
func (h *RoomHandler) ListValidLeagues(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListValidLeaguesQuery{})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	leagues := result.([]string)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Retrieved %d valid leagues successfully", len(leagues)),
		"leagues": leagues,
		"count":   len(leagues),
	})
}

// GetRoomAudit handles GET /room/get_room_audit/{room_id}
func (h *RoomHandler) GetRoomAudit(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	roomID := chi.URLParam(r, "room_id")
	result, err := h.queryBus.Ask(r.Context(), queries.GetRoomAuditQuery{RoomID: roomID, UserID: user.UserID})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	records := result.([]*entities.AuditRecord)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"room_id": roomID,
		"audit":   records,
		"count":   len(records),
	})
}
