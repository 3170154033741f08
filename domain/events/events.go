package events

import "time"

// SourceAPI is the EventBridge source for events raised by this service
const SourceAPI = "fortunasbet.api"

// Event type names
const (
	TypeRoomCreated         = "room.created"
	TypeRoomUpdated         = "room.updated"
	TypeRoomDeleted         = "room.deleted"
	TypeMembershipRequested = "membership.requested"
	TypeMembershipApproved  = "membership.approved"
	TypeMembershipDenied    = "membership.denied"
	TypeMemberInvited       = "membership.invited"
	TypeMemberStatusChanged = "membership.status_changed"
)

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, at time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   at.UTC(),
		Version:     1,
	}
}

// RoomCreated is raised when a user opens a new room
type RoomCreated struct {
	BaseEvent
	RoomID   string   `json:"room_id"`
	OwnerID  string   `json:"owner_id"`
	RoomName string   `json:"room_name"`
	Leagues  []string `json:"leagues"`
	Public   bool     `json:"public"`
}

func NewRoomCreated(roomID, ownerID, roomName string, leagues []string, public bool, at time.Time) RoomCreated {
	return RoomCreated{
		BaseEvent: newBase(roomID, TypeRoomCreated, at),
		RoomID:    roomID,
		OwnerID:   ownerID,
		RoomName:  roomName,
		Leagues:   leagues,
		Public:    public,
	}
}

// RoomUpdated is raised when an admin edits a room
type RoomUpdated struct {
	BaseEvent
	RoomID        string   `json:"room_id"`
	UpdatedBy     string   `json:"updated_by"`
	ChangedFields []string `json:"changed_fields"`
}

func NewRoomUpdated(roomID, updatedBy string, changed []string, at time.Time) RoomUpdated {
	return RoomUpdated{
		BaseEvent:     newBase(roomID, TypeRoomUpdated, at),
		RoomID:        roomID,
		UpdatedBy:     updatedBy,
		ChangedFields: changed,
	}
}

// RoomDeleted is raised when the owner removes a room
type RoomDeleted struct {
	BaseEvent
	RoomID    string `json:"room_id"`
	DeletedBy string `json:"deleted_by"`
}

func NewRoomDeleted(roomID, deletedBy string, at time.Time) RoomDeleted {
	return RoomDeleted{
		BaseEvent: newBase(roomID, TypeRoomDeleted, at),
		RoomID:    roomID,
		DeletedBy: deletedBy,
	}
}

// MembershipEvent covers the membership lifecycle transitions
type MembershipEvent struct {
	BaseEvent
	RoomID  string `json:"room_id"`
	UserID  string `json:"user_id"`
	ActorID string `json:"actor_id"`
	Status  string `json:"status"`
	Type    string `json:"membership_type"`
}

func NewMembershipEvent(eventType, roomID, userID, actorID, status, membershipType string, at time.Time) MembershipEvent {
	return MembershipEvent{
		BaseEvent: newBase(roomID, eventType, at),
		RoomID:    roomID,
		UserID:    userID,
		ActorID:   actorID,
		Status:    status,
		Type:      membershipType,
	}
}
