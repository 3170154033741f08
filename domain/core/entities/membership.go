package entities

import (
	"fmt"
	"time"

	"fortunasbet-api/domain/core/valueobjects"
	pkgerrors "fortunasbet-api/pkg/errors"
)

// Membership links a user to a room
type Membership struct {
	RoomID      string                        `json:"room_id"`
	RoomName    string                        `json:"room_name,omitempty"`
	UserID      string                        `json:"requestor"`
	InvitedUser string                        `json:"invited_user,omitempty"`
	AdminID     string                        `json:"admin_id,omitempty"`
	Type        valueobjects.MembershipType   `json:"membership_type"`
	Status      valueobjects.MembershipStatus `json:"status"`
	JoinDate    int64                         `json:"join_date,omitempty"`
	CreatedAt   int64                         `json:"created_at"`
	UpdatedAt   int64                         `json:"updated_at,omitempty"`
}

// NewMembershipRequest creates a pending request by userID to join room
func NewMembershipRequest(room *Room, userID string, now time.Time) (*Membership, error) {
	if userID == "" {
		return nil, pkgerrors.NewInvalidUserIDError()
	}
	return &Membership{
		RoomID:    room.ID,
		RoomName:  room.Name,
		UserID:    userID,
		Type:      valueobjects.TypeRequest,
		Status:    valueobjects.StatusPending,
		CreatedAt: now.Unix(),
	}, nil
}

// NewInvitation creates a pending invitation from adminID to invitee
func NewInvitation(room *Room, adminID, invitee string, now time.Time) (*Membership, error) {
	if invitee == "" {
		return nil, pkgerrors.NewInvalidUserIDError()
	}
	if invitee == adminID {
		return nil, pkgerrors.NewValidationError("cannot invite yourself")
	}
	return &Membership{
		RoomID:      room.ID,
		RoomName:    room.Name,
		UserID:      invitee,
		InvitedUser: invitee,
		AdminID:     adminID,
		Type:        valueobjects.TypeInvitation,
		Status:      valueobjects.StatusPending,
		CreatedAt:   now.Unix(),
	}, nil
}

// NewOwnerMembership is the approved admin membership created with a room
func NewOwnerMembership(room *Room, now time.Time) *Membership {
	return &Membership{
		RoomID:    room.ID,
		RoomName:  room.Name,
		UserID:    room.OwnerID,
		AdminID:   room.OwnerID,
		Type:      valueobjects.TypeAdmin,
		Status:    valueobjects.StatusApproved,
		JoinDate:  now.Unix(),
		CreatedAt: now.Unix(),
	}
}

// CanRespond checks whether actorID may answer this pending membership.
// Authorization is decided before the membership state is inspected.
func (m *Membership) CanRespond(room *Room, actorID string) error {
	invited := m.Type == valueobjects.TypeInvitation || m.InvitedUser != ""
	if invited {
		if actorID != m.UserID {
			return pkgerrors.NewUnauthorizedRoomAccessError("only the invited user can answer an invitation")
		}
	} else if !room.IsAdmin(actorID) {
		return pkgerrors.NewUnauthorizedRoomAccessError("only room admins can answer membership requests")
	}
	if m.Status != valueobjects.StatusPending {
		return pkgerrors.NewInvalidMembershipStatusError(
			fmt.Sprintf("membership is already %s", m.Status))
	}
	if m.Type != valueobjects.TypeRequest && m.Type != valueobjects.TypeInvitation {
		return pkgerrors.NewInvalidMembershipStatusError(
			fmt.Sprintf("membership of type '%s' is not awaiting an answer", m.Type))
	}
	return nil
}

// Respond approves or denies a pending membership. Callers check CanRespond first.
func (m *Membership) Respond(actorID string, approve bool, now time.Time) {
	if m.Type == valueobjects.TypeRequest {
		m.AdminID = actorID
	}
	if approve {
		m.Status = valueobjects.StatusApproved
		m.Type = valueobjects.TypeMember
		m.JoinDate = now.Unix()
	} else {
		m.Status = valueobjects.StatusDenied
	}
	m.UpdatedAt = now.Unix()
}

// ChangeStatus applies an admin-driven status or role change.
// An empty newType keeps the current type, except that approving an open
// request or invitation turns it into a plain member.
func (m *Membership) ChangeStatus(adminID string, status valueobjects.MembershipStatus, newType valueobjects.MembershipType, now time.Time) {
	if newType == "" && status == valueobjects.StatusApproved && !m.Type.IsRole() {
		newType = valueobjects.TypeMember
	}
	// Join date is only stamped when a pending membership is first approved
	if status == valueobjects.StatusApproved && m.Status == valueobjects.StatusPending {
		m.JoinDate = now.Unix()
	}
	if newType != "" {
		m.Type = newType
	}
	m.Status = status
	m.AdminID = adminID
	m.UpdatedAt = now.Unix()
}

// IsApprovedAdmin reports whether the membership grants admin rights
func (m *Membership) IsApprovedAdmin() bool {
	return m.Status == valueobjects.StatusApproved && m.Type == valueobjects.TypeAdmin
}
