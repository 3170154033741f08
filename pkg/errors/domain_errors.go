package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Generic error codes
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeInternal     = "INTERNAL_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeDatabase     = "DATABASE_ERROR"
	CodeExternal     = "EXTERNAL_SERVICE_ERROR"
)

// Domain error codes surfaced to API clients
const (
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeRoomNotFound            = "ROOM_NOT_FOUND"
	CodeMembershipNotFound      = "MEMBERSHIP_NOT_FOUND"
	CodeNotificationNotFound    = "NOTIFICATION_NOT_FOUND"
	CodeInvalidUserID           = "INVALID_USER_ID"
	CodeUserNameTooLong         = "USER_NAME_TOO_LONG"
	CodeInvalidLeague           = "INVALID_LEAGUE"
	CodeEmptyLeagueList         = "EMPTY_LEAGUE_LIST"
	CodeInvalidDateRange        = "INVALID_DATE_RANGE"
	CodeEmptyAdminsList         = "EMPTY_ADMINS_LIST"
	CodeInvalidMembershipStatus = "INVALID_MEMBERSHIP_STATUS"
	CodeInvalidMembershipType   = "INVALID_MEMBERSHIP_TYPE"
	CodeInvalidColor            = "INVALID_COLOR"
	CodeNoFieldsToUpdate        = "NO_FIELDS_TO_UPDATE"
	CodeMembershipExists        = "MEMBERSHIP_ALREADY_EXISTS"
	CodeUnauthorizedRoomAccess  = "UNAUTHORIZED_ROOM_ACCESS"
)

// NewUserNotFoundError is returned when no profile exists for a user
func NewUserNotFoundError(userID string) *AppError {
	return NewNotFoundError("user").
		WithCode(CodeUserNotFound).
		WithDetails(map[string]interface{}{"user_id": userID})
}

// NewRoomNotFoundError is returned when a room id does not resolve
func NewRoomNotFoundError(roomID string) *AppError {
	return NewNotFoundError("room").
		WithCode(CodeRoomNotFound).
		WithDetails(map[string]interface{}{"room_id": roomID})
}

// NewMembershipNotFoundError is returned when a user has no membership in a room
func NewMembershipNotFoundError(roomID, userID string) *AppError {
	return NewNotFoundError("membership").
		WithCode(CodeMembershipNotFound).
		WithDetails(map[string]interface{}{"room_id": roomID, "user_id": userID})
}

// NewNotificationNotFoundError is returned when a notification does not exist for the user
func NewNotificationNotFoundError(notificationID string) *AppError {
	return NewNotFoundError("notification").
		WithCode(CodeNotificationNotFound).
		WithDetails(map[string]interface{}{"notification_id": notificationID})
}

func NewInvalidUserIDError() *AppError {
	return NewValidationError("user id is missing or malformed").WithCode(CodeInvalidUserID)
}

func NewUserNameTooLongError(max int) *AppError {
	return NewValidationError(fmt.Sprintf("name must be at most %d characters", max)).
		WithCode(CodeUserNameTooLong)
}

func NewInvalidLeagueError(league string, allowed []string) *AppError {
	return NewValidationError(fmt.Sprintf("invalid league '%s', must be one of: %s", league, strings.Join(allowed, ", "))).
		WithCode(CodeInvalidLeague)
}

func NewEmptyLeagueListError() *AppError {
	return NewValidationError("at least one league is required").WithCode(CodeEmptyLeagueList)
}

func NewInvalidDateRangeError() *AppError {
	return NewValidationError("start_date must not be after end_date").WithCode(CodeInvalidDateRange)
}

func NewEmptyAdminsListError() *AppError {
	return NewValidationError("a room must keep at least one admin").WithCode(CodeEmptyAdminsList)
}

func NewInvalidMembershipStatusError(message string) *AppError {
	return NewValidationError(message).WithCode(CodeInvalidMembershipStatus)
}

func NewInvalidMembershipTypeError(value string) *AppError {
	return NewValidationError(fmt.Sprintf("invalid membership type '%s'", value)).
		WithCode(CodeInvalidMembershipType)
}

func NewInvalidColorError(color string, allowed []string) *AppError {
	return NewValidationError(fmt.Sprintf("color '%s' must be one of: %s", color, strings.Join(allowed, ", "))).
		WithCode(CodeInvalidColor)
}

func NewNoFieldsToUpdateError() *AppError {
	return NewValidationError("no fields provided to update").WithCode(CodeNoFieldsToUpdate)
}

// NewMembershipExistsError is returned when a user already has a membership record in a room
func NewMembershipExistsError(roomID, userID string) *AppError {
	return NewConflictError("membership already exists").
		WithCode(CodeMembershipExists).
		WithDetails(map[string]interface{}{"room_id": roomID, "user_id": userID})
}

// NewUnauthorizedRoomAccessError is returned when the caller lacks the room role an action needs
func NewUnauthorizedRoomAccessError(message string) *AppError {
	return NewForbiddenError(message).WithCode(CodeUnauthorizedRoomAccess)
}

// StatusFor returns the HTTP status an error maps to
func StatusFor(err error) int {
	if appErr := GetAppError(err); appErr != nil && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
