package commands

import (
	pkgerrors "fortunasbet-api/pkg/errors"
)

// CreateRoomCommand opens a new room owned by UserID
type CreateRoomCommand struct {
	RoomID      string
	UserID      string
	Name        string
	Leagues     []string
	StartDate   int64
	EndDate     int64
	Public      bool
	Description string
}

// Validate checks identifiers. Field rules live on the Room entity.
func (c CreateRoomCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewInvalidUserIDError()
	}
	if c.RoomID == "" {
		return pkgerrors.NewValidationError("room_id is required")
	}
	return nil
}

// EditRoomCommand changes the provided fields of a room
type EditRoomCommand struct {
	RoomID      string
	UserID      string
	Name        *string
	Leagues     *[]string
	Admins      *[]string
	StartDate   *int64
	EndDate     *int64
	Public      *bool
	Description *string
}

func (c EditRoomCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewInvalidUserIDError()
	}
	if c.RoomID == "" {
		return pkgerrors.NewValidationError("room_id is required")
	}
	return nil
}

// DeleteRoomCommand removes a room and its memberships
type DeleteRoomCommand struct {
	RoomID string
	UserID string
}

func (c DeleteRoomCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewInvalidUserIDError()
	}
	if c.RoomID == "" {
		return pkgerrors.NewValidationError("room_id is required")
	}
	return nil
}
