package handlers

import (
	"encoding/json"
	"net/http"

	"fortunasbet-api/application/commands/bus"
	querybus "fortunasbet-api/application/queries/bus"
	"fortunasbet-api/pkg/auth"
	pkgerrors "fortunasbet-api/pkg/errors"
	"fortunasbet-api/pkg/utils"

	"go.uber.org/zap"
)

// base carries what every handler needs to dispatch and respond
type base struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

func (h *base) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *base) respondError(w http.ResponseWriter, r *http.Request, err error) {
	h.errorHandler.Handle(w, r, err)
}

// currentUser returns the caller set by the auth middleware, writing a 401 when absent
func (h *base) currentUser(w http.ResponseWriter, r *http.Request) (*auth.UserContext, bool) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, r, pkgerrors.NewUnauthorizedError("Unauthorized"))
		return nil, false
	}
	return user, true
}

// decode reads and validates a JSON request body, writing a 400 on failure
func (h *base) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		h.respondError(w, r, pkgerrors.NewValidationError(err.Error()))
		return false
	}
	return true
}
