package entities

import "time"

// Notification types
const (
	NotificationMembershipRequest  = "membership_request"
	NotificationMembershipApproved = "membership_approved"
	NotificationMembershipDenied   = "membership_denied"
	NotificationRoomInvitation     = "room_invitation"
	NotificationInvitationAnswered = "invitation_answered"
)

// Notification is a message shown to a single user
type Notification struct {
	ID        string `json:"notification_id"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	RoomID    string `json:"room_id,omitempty"`
	Viewed    bool   `json:"viewed"`
	CreatedAt int64  `json:"created_at"`
}

func NewNotification(id, userID, notificationType, message, roomID string, now time.Time) *Notification {
	return &Notification{
		ID:        id,
		UserID:    userID,
		Type:      notificationType,
		Message:   message,
		RoomID:    roomID,
		CreatedAt: now.Unix(),
	}
}
