package handlers

import (
	"net/http"

	"fortunasbet-api/application/commands"
	"fortunasbet-api/application/commands/bus"
	"fortunasbet-api/application/queries"
	querybus "fortunasbet-api/application/queries/bus"
	pkgerrors "fortunasbet-api/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler handles profile and notification requests
type UserHandler struct {
	base
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{base{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}}
}

// UpdateProfileRequest represents the request body for a profile edit.
// Name length and color are checked by the domain.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Color *string `json:"color,omitempty"`
}

// GetRequestorsProfile handles GET /user/get_requestors_profile.
// The profile is created from the token claims on first access.
func (h *UserHandler) GetRequestorsProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	query := queries.GetUserProfileQuery{UserID: user.UserID}
	profile, err := h.queryBus.Ask(r.Context(), query)
	if pkgerrors.HasCode(err, pkgerrors.CodeUserNotFound) {
		// First visit creates the profile from the token claims
		ensure := commands.EnsureUserProfileCommand{
			UserID:   user.UserID,
			Username: user.Username,
			Email:    user.Email,
			Name:     user.Name,
		}
		if err := h.commandBus.Send(r.Context(), ensure); err != nil {
			h.respondError(w, r, err)
			return
		}
		profile, err = h.queryBus.Ask(r.Context(), query)
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, profile)
}

// UpdateUserProfile handles PUT /user/update_user_profile
func (h *UserHandler) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	cmd := commands.UpdateUserProfileCommand{
		UserID:   user.UserID,
		Username: user.Username,
		Name:     req.Name,
		Email:    req.Email,
		Color:    req.Color,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	profile, err := h.queryBus.Ask(r.Context(), queries.GetUserProfileQuery{UserID: user.UserID})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// GetUserProfile handles GET /user/get_user_profile/{user_id}
func (h *UserHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.queryBus.Ask(r.Context(), queries.GetPublicProfileQuery{UserID: chi.URLParam(r, "user_id")})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, profile)
}

// GetNotifications handles GET /notifications/get_notifications
func (h *UserHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.queryBus.Ask(r.Context(), queries.ListNotificationsQuery{UserID: user.UserID})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, list)
}

// AcknowledgeNotification handles PUT /notifications/acknowledge_notification/{notification_id}
func (h *UserHandler) AcknowledgeNotification(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	notificationID := chi.URLParam(r, "notification_id")
	cmd := commands.AcknowledgeNotificationCommand{UserID: user.UserID, NotificationID: notificationID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Notification acknowledged",
		"notification_id": notificationID,
	})
}
