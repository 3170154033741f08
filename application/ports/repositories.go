package ports

import (
	"context"

	"fortunasbet-api/domain/core/entities"
	"fortunasbet-api/domain/core/valueobjects"
	"fortunasbet-api/domain/events"
)

// RoomRepository defines the interface for room persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type RoomRepository interface {
	// Create stores a new room, failing if the id is taken
	Create(ctx context.Context, room *entities.Room) error

	// GetByID retrieves a room, returning a RoomNotFound error when missing
	GetByID(ctx context.Context, roomID string) (*entities.Room, error)

	// Update overwrites an existing room
	Update(ctx context.Context, room *entities.Room) error

	// Delete removes a room
	Delete(ctx context.Context, roomID string) error

	// List returns every room
	List(ctx context.Context) ([]*entities.Room, error)
}

// MembershipRepository defines the interface for membership persistence
type MembershipRepository interface {
	// Create stores a membership, returning MembershipAlreadyExists if (room, user) is taken
	Create(ctx context.Context, membership *entities.Membership) error

	// Get retrieves the membership of a user in a room
	Get(ctx context.Context, roomID, userID string) (*entities.Membership, error)

	// UpdateIfStatus saves a membership only while its stored status still equals expected
	UpdateIfStatus(ctx context.Context, membership *entities.Membership, expected valueobjects.MembershipStatus) error

	// Save overwrites a membership unconditionally
	Save(ctx context.Context, membership *entities.Membership) error

	// ListByRoom returns every membership of a room
	ListByRoom(ctx context.Context, roomID string) ([]*entities.Membership, error)

	// ListByUser returns every membership held by a user
	ListByUser(ctx context.Context, userID string) ([]*entities.Membership, error)

	// DeleteByRoom removes every membership of a room
	DeleteByRoom(ctx context.Context, roomID string) error
}

// UserProfileRepository defines the interface for profile persistence
type UserProfileRepository interface {
	// Create stores a profile if none exists. It reports whether a write happened.
	Create(ctx context.Context, profile *entities.UserProfile) (bool, error)

	// GetByID retrieves a profile, returning a UserNotFound error when missing
	GetByID(ctx context.Context, userID string) (*entities.UserProfile, error)

	// Update overwrites the editable fields of an existing profile
	Update(ctx context.Context, profile *entities.UserProfile) error

	// Touch refreshes last_active_at
	Touch(ctx context.Context, userID string, at int64) error

	// GetByIDs retrieves several profiles at once, skipping unknown ids
	GetByIDs(ctx context.Context, userIDs []string) (map[string]*entities.UserProfile, error)
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	Create(ctx context.Context, notification *entities.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*entities.Notification, error)
	// Acknowledge marks a notification viewed, returning NotificationNotFound when missing
	Acknowledge(ctx context.Context, userID, notificationID string) error
}

// AuditRepository stores the audit trail
type AuditRepository interface {
	Record(ctx context.Context, record *entities.AuditRecord) error
	// ListByEntity returns the trail for an entity, newest first
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entities.AuditRecord, error)
}

// EventBus publishes domain events
type EventBus interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// IdentityProvider updates user attributes in the identity store
type IdentityProvider interface {
	UpdateUserAttributes(ctx context.Context, username string, attributes map[string]string) error
}
