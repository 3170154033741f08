package commands

import (
	pkgerrors "fortunasbet-api/pkg/errors"
)

// EnsureUserProfileCommand creates the caller's profile on first access
type EnsureUserProfileCommand struct {
	UserID   string
	Username string
	Email    string
	Name     string
}

func (c EnsureUserProfileCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewInvalidUserIDError()
	}
	return nil
}

// UpdateUserProfileCommand changes the provided profile fields.
// Username addresses the user in the identity provider.
type UpdateUserProfileCommand struct {
	UserID   string
	Username string
	Name     *string
	Email    *string
	Color    *string
}

func (c UpdateUserProfileCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewInvalidUserIDError()
	}
	if c.Name == nil && c.Email == nil && c.Color == nil {
		return pkgerrors.NewNoFieldsToUpdateError()
	}
	return nil
}

// AcknowledgeNotificationCommand marks a notification as viewed
type AcknowledgeNotificationCommand struct {
	UserID         string
	NotificationID string
}

func (c AcknowledgeNotificationCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewInvalidUserIDError()
	}
	if c.NotificationID == "" {
		return pkgerrors.NewValidationError("notification_id is required")
	}
	return nil
}
