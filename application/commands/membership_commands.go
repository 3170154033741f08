package commands

import (
	pkgerrors "fortunasbet-api/pkg/errors"
)

// CreateMembershipRequestCommand asks to join a room
type CreateMembershipRequestCommand struct {
	RoomID string
	UserID string
}

func (c CreateMembershipRequestCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewInvalidUserIDError()
	}
	if c.RoomID == "" {
		return pkgerrors.NewValidationError("room_id is required")
	}
	return nil
}

// InviteUserCommand lets an admin invite another user
type InviteUserCommand struct {
	RoomID       string
	AdminID      string
	TargetUserID string
}

func (c InviteUserCommand) Validate() error {
	if c.AdminID == "" || c.TargetUserID == "" {
		return pkgerrors.NewInvalidUserIDError()
	}
	if c.RoomID == "" {
		return pkgerrors.NewValidationError("room_id is required")
	}
	return nil
}

// RespondMembershipCommand approves or denies a pending request or invitation
type RespondMembershipCommand struct {
	RoomID       string
	ActorID      string
	TargetUserID string
	Approve      bool
}

func (c RespondMembershipCommand) Validate() error {
	if c.ActorID == "" || c.TargetUserID == "" {
		return pkgerrors.NewInvalidUserIDError()
	}
	if c.RoomID == "" {
		return pkgerrors.NewValidationError("room_id is required")
	}
	return nil
}

// ChangeMemberStatusCommand lets an admin move another member between states
type ChangeMemberStatusCommand struct {
	RoomID            string
	AdminID           string
	TargetUserID      string
	NewStatus         string
	NewMembershipType string
}

func (c ChangeMemberStatusCommand) Validate() error {
	if c.AdminID == "" || c.TargetUserID == "" {
		return pkgerrors.NewInvalidUserIDError()
	}
	if c.RoomID == "" {
		return pkgerrors.NewValidationError("room_id is required")
	}
	if c.AdminID == c.TargetUserID {
		return pkgerrors.NewValidationError("admins cannot change their own membership")
	}
	if c.NewStatus == "" {
		return pkgerrors.NewInvalidMembershipStatusError("new_status is required")
	}
	return nil
}
