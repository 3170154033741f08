package handlers

import (
	"net/http"

	"fortunasbet-api/application/commands"
	"fortunasbet-api/application/commands/bus"
	"fortunasbet-api/application/queries"
	querybus "fortunasbet-api/application/queries/bus"
	"fortunasbet-api/domain/core/entities"
	pkgerrors "fortunasbet-api/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MembershipHandler handles membership-related HTTP requests
type MembershipHandler struct {
	base
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *MembershipHandler {
	return &MembershipHandler{base{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}}
}

// MembershipRequest represents the request body for joining a room
type MembershipRequest struct {
	RoomID string `json:"room_id" validate:"required"`
}

// RespondMembershipRequest represents an approval or denial of a pending membership
type RespondMembershipRequest struct {
	RoomID       string `json:"room_id" validate:"required"`
	TargetUserID string `json:"target_user_id" validate:"required"`
	Approve      *bool  `json:"approve" validate:"required"`
}

// ChangeMemberStatusRequest represents an admin change to another member
type ChangeMemberStatusRequest struct {
	RoomID            string `json:"room_id" validate:"required"`
	TargetUserID      string `json:"target_user_id" validate:"required"`
	NewStatus         string `json:"new_status" validate:"required"`
	NewMembershipType string `json:"new_membership_type,omitempty"`
}

// InviteUserRequest represents an admin inviting a user into a room
type InviteUserRequest struct {
	RoomID       string `json:"room_id" validate:"required"`
	TargetUserID string `json:"target_user_id" validate:"required"`
}

// CreateMembershipRequest handles POST /membership/create_membership_request
func (h *MembershipHandler) CreateMembershipRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req MembershipRequest
	if !h.decode(w, r, &req) {
		return
	}

	cmd := commands.CreateMembershipRequestCommand{RoomID: req.RoomID, UserID: user.UserID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	membership, err := h.queryBus.Ask(r.Context(), queries.GetMembershipQuery{
		RoomID:      req.RoomID,
		UserID:      user.UserID,
		RequesterID: user.UserID,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Membership request created successfully",
		"membership": membership,
	})
}

// ListMembershipRequests handles GET /membership/get_all_membership_request
func (h *MembershipHandler) ListMembershipRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListUserMembershipsQuery{UserID: user.UserID})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	memberships := result.([]*entities.Membership)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"membership_requests": memberships,
			"count":               len(memberships),
		},
	})
}

// GetAdminRequests handles GET /membership/get_admin_requests/{room_id}
func (h *MembershipHandler) GetAdminRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	roomID := chi.URLParam(r, "room_id")
	result, err := h.queryBus.Ask(r.Context(), queries.GetPendingRequestsQuery{RoomID: roomID, UserID: user.UserID})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	requests := result.([]*entities.Membership)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"room_id":             roomID,
		"membership_requests": requests,
		"count":               len(requests),
	})
}

// RespondMembership handles PUT /membership/edit_membership_requests
func (h *MembershipHandler) RespondMembership(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req RespondMembershipRequest
	if !h.decode(w, r, &req) {
		return
	}

	cmd := commands.RespondMembershipCommand{
		RoomID:       req.RoomID,
		ActorID:      user.UserID,
		TargetUserID: req.TargetUserID,
		Approve:      *req.Approve,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	membership, err := h.queryBus.Ask(r.Context(), queries.GetMembershipQuery{
		RoomID:      req.RoomID,
		UserID:      req.TargetUserID,
		RequesterID: user.UserID,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	action := "denied"
	if *req.Approve {
		action = "approved"
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Membership request " + action + " successfully",
		"membership": membership,
		"action":     action,
		"admin_id":   user.UserID,
	})
}

// GetRoomMembers handles GET /membership/get_room_members/{room_id}
func (h *MembershipHandler) GetRoomMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	roomID := chi.URLParam(r, "room_id")
	result, err := h.queryBus.Ask(r.Context(), queries.GetRoomMembersQuery{RoomID: roomID, UserID: user.UserID})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	members := result.([]queries.RoomMember)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"room_id": roomID,
		"members": members,
		"count":   len(members),
	})
}

// ChangeMemberStatus handles PUT /membership/change_member_status
func (h *MembershipHandler) ChangeMemberStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req ChangeMemberStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	cmd := commands.ChangeMemberStatusCommand{
		RoomID:            req.RoomID,
		AdminID:           user.UserID,
		TargetUserID:      req.TargetUserID,
		NewStatus:         req.NewStatus,
		NewMembershipType: req.NewMembershipType,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	membership, err := h.queryBus.Ask(r.Context(), queries.GetMembershipQuery{
		RoomID:      req.RoomID,
		UserID:      req.TargetUserID,
		RequesterID: user.UserID,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Member status updated successfully",
		"membership": membership,
	})
}

// InviteUser handles POST /membership/invite_user
func (h *MembershipHandler) InviteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req InviteUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	cmd := commands.InviteUserCommand{
		RoomID:       req.RoomID,
		AdminID:      user.UserID,
		TargetUserID: req.TargetUserID,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	membership, err := h.queryBus.Ask(r.Context(), queries.GetMembershipQuery{
		RoomID:      req.RoomID,
		UserID:      req.TargetUserID,
		RequesterID: user.UserID,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "User invited successfully",
		"membership": membership,
	})
}
