package queries

import (
	"fortunasbet-api/domain/core/entities"
	pkgerrors "fortunasbet-api/pkg/errors"
)

func requireRoom(roomID string) error {
	if roomID == "" {
		return pkgerrors.NewValidationError("room_id is required")
	}
	return nil
}

func requireUser(userID string) error {
	if userID == "" {
		return pkgerrors.NewInvalidUserIDError()
	}
	return nil
}

// GetRoomQuery fetches a single room
type GetRoomQuery struct {
	RoomID string
}

func (q GetRoomQuery) Validate() error { return requireRoom(q.RoomID) }

// ListRoomsQuery lists every room
type ListRoomsQuery struct{}

func (q ListRoomsQuery) Validate() error { return nil }

// ListValidLeaguesQuery returns the leagues rooms may use
type ListValidLeaguesQuery struct{}

func (q ListValidLeaguesQuery) Validate() error { return nil }

// GetRoomAuditQuery returns a room's audit trail to one of its admins
type GetRoomAuditQuery struct {
	RoomID string
	UserID string
}

func (q GetRoomAuditQuery) Validate() error {
	if err := requireUser(q.UserID); err != nil {
		return err
	}
	return requireRoom(q.RoomID)
}

// GetMembershipQuery fetches a membership visible to RequesterID,
// who must be the member or a room admin
type GetMembershipQuery struct {
	RoomID      string
	UserID      string
	RequesterID string
}

func (q GetMembershipQuery) Validate() error {
	if err := requireUser(q.UserID); err != nil {
		return err
	}
	if err := requireUser(q.RequesterID); err != nil {
		return err
	}
	return requireRoom(q.RoomID)
}

// ListUserMembershipsQuery lists the caller's memberships
type ListUserMembershipsQuery struct {
	UserID string
}

func (q ListUserMembershipsQuery) Validate() error { return requireUser(q.UserID) }

// GetPendingRequestsQuery lists pending join requests of a room for an admin
type GetPendingRequestsQuery struct {
	RoomID string
	UserID string
}

func (q GetPendingRequestsQuery) Validate() error {
	if err := requireUser(q.UserID); err != nil {
		return err
	}
	return requireRoom(q.RoomID)
}

// GetRoomMembersQuery lists a room's memberships with profile details for an admin
type GetRoomMembersQuery struct {
	RoomID string
	UserID string
}

func (q GetRoomMembersQuery) Validate() error {
	if err := requireUser(q.UserID); err != nil {
		return err
	}
	return requireRoom(q.RoomID)
}

// RoomMember is a membership enriched with the member's profile
type RoomMember struct {
	entities.Membership
	Name  string `json:"name"`
	Color string `json:"color"`
}

// GetUserProfileQuery returns the caller's own profile and refreshes its activity time
type GetUserProfileQuery struct {
	UserID string
}

func (q GetUserProfileQuery) Validate() error { return requireUser(q.UserID) }

// GetPublicProfileQuery returns another user's public profile
type GetPublicProfileQuery struct {
	UserID string
}

func (q GetPublicProfileQuery) Validate() error { return requireUser(q.UserID) }

// ListNotificationsQuery lists the caller's notifications
type ListNotificationsQuery struct {
	UserID string
}

func (q ListNotificationsQuery) Validate() error { return requireUser(q.UserID) }

// NotificationList is the result of ListNotificationsQuery
type NotificationList struct {
	Notifications []*entities.Notification `json:"notifications"`
	Count         int                      `json:"count"`
	Unread        int                      `json:"unread"`
}
