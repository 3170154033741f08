package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// Audited entity types
const (
	AuditEntityRoom        = "ROOM"
	AuditEntityMembership  = "MEMBERSHIP"
	AuditEntityUserProfile = "USER_PROFILE"
)

// Audit actions
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditRecord captures one mutation with before and after snapshots
type AuditRecord struct {
	ID            string          `json:"audit_id"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	UserID        string          `json:"user_id"`
	Action        string          `json:"action"`
	Before        json.RawMessage `json:"before,omitempty"`
	After         json.RawMessage `json:"after,omitempty"`
	Timestamp     string          `json:"timestamp"`
	TimestampUnix int64           `json:"timestamp_unix"`
	TimestampNano int64           `json:"-"`
}

// NewAuditRecord snapshots before and after as JSON. Either may be nil.
func NewAuditRecord(id, entityType, entityID, userID, action string, before, after interface{}, now time.Time) (*AuditRecord, error) {
	rec := &AuditRecord{
		ID:            id,
		EntityType:    entityType,
		EntityID:      entityID,
		UserID:        userID,
		Action:        action,
		Timestamp:     now.UTC().Format(time.RFC3339),
		TimestampUnix: now.Unix(),
		TimestampNano: now.UnixNano(),
	}

	var err error
	if rec.Before, err = snapshot(before); err != nil {
		return nil, fmt.Errorf("failed to snapshot before state: %w", err)
	}
	if rec.After, err = snapshot(after); err != nil {
		return nil, fmt.Errorf("failed to snapshot after state: %w", err)
	}
	return rec, nil
}

func snapshot(v interface{}) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
