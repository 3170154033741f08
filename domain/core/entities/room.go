package entities

import (
	"slices"
	"strings"
	"time"

	"fortunasbet-api/domain/core/valueobjects"
	pkgerrors "fortunasbet-api/pkg/errors"
)

const (
	MaxRoomNameLength    = 100
	MaxDescriptionLength = 500
)

// Room is a competition tied to one or more leagues over a date range
type Room struct {
	ID          string   `json:"room_id"`
	Name        string   `json:"room_name"`
	Leagues     []string `json:"leagues"`
	StartDate   int64    `json:"start_date"`
	EndDate     int64    `json:"end_date"`
	Public      bool     `json:"public"`
	Description string   `json:"description,omitempty"`
	OwnerID     string   `json:"owner_id"`
	Admins      []string `json:"admins"`
	CreatedAt   int64    `json:"created_at"`
	ModifiedAt  int64    `json:"modified_at,omitempty"`
}

// NewRoom creates a room owned and administered by ownerID
func NewRoom(id, ownerID, name string, leagues []string, startDate, endDate int64, public bool, description string, now time.Time) (*Room, error) {
	if ownerID == "" {
		return nil, pkgerrors.NewInvalidUserIDError()
	}

	room := &Room{
		ID:          id,
		OwnerID:     ownerID,
		Public:      public,
		Description: strings.TrimSpace(description),
		Admins:      []string{ownerID},
		CreatedAt:   now.Unix(),
	}

	if err := room.setName(name); err != nil {
		return nil, err
	}
	if err := room.setLeagues(leagues); err != nil {
		return nil, err
	}
	if err := validateDateRange(startDate, endDate); err != nil {
		return nil, err
	}
	if err := validateDescription(room.Description); err != nil {
		return nil, err
	}
	room.StartDate = startDate
	room.EndDate = endDate

	return room, nil
}

// RoomUpdate carries the optional fields of an edit
type RoomUpdate struct {
	Name        *string
	Leagues     *[]string
	Admins      *[]string
	StartDate   *int64
	EndDate     *int64
	Public      *bool
	Description *string
}

// IsEmpty reports whether the update changes nothing
func (u RoomUpdate) IsEmpty() bool {
	return u.Name == nil && u.Leagues == nil && u.Admins == nil &&
		u.StartDate == nil && u.EndDate == nil && u.Public == nil && u.Description == nil
}

// ApplyUpdate validates and applies an edit, returning the changed field names
func (r *Room) ApplyUpdate(u RoomUpdate, now time.Time) ([]string, error) {
	if u.IsEmpty() {
		return nil, pkgerrors.NewNoFieldsToUpdateError()
	}

	next := r.Clone()
	var changed []string

	if u.Name != nil {
		if err := next.setName(*u.Name); err != nil {
			return nil, err
		}
		changed = append(changed, "room_name")
	}
	if u.Leagues != nil {
		if err := next.setLeagues(*u.Leagues); err != nil {
			return nil, err
		}
		changed = append(changed, "leagues")
	}
	if u.Admins != nil {
		if err := next.setAdmins(*u.Admins); err != nil {
			return nil, err
		}
		changed = append(changed, "admins")
	}
	if u.StartDate != nil {
		next.StartDate = *u.StartDate
		changed = append(changed, "start_date")
	}
	if u.EndDate != nil {
		next.EndDate = *u.EndDate
		changed = append(changed, "end_date")
	}
	// The merged range is checked, so editing one end still has to fit the other
	if u.StartDate != nil || u.EndDate != nil {
		if err := validateDateRange(next.StartDate, next.EndDate); err != nil {
			return nil, err
		}
	}
	if u.Public != nil {
		next.Public = *u.Public
		changed = append(changed, "public")
	}
	if u.Description != nil {
		desc := strings.TrimSpace(*u.Description)
		if err := validateDescription(desc); err != nil {
			return nil, err
		}
		next.Description = desc
		changed = append(changed, "description")
	}

	next.ModifiedAt = now.Unix()
	*r = *next
	return changed, nil
}

// IsAdmin reports whether userID administers the room
func (r *Room) IsAdmin(userID string) bool {
	return userID != "" && slices.Contains(r.Admins, userID)
}

// IsOwner reports whether userID created the room
func (r *Room) IsOwner(userID string) bool {
	return userID != "" && r.OwnerID == userID
}

// AddAdmin grants admin rights, ignoring users who already hold them
func (r *Room) AddAdmin(userID string, now time.Time) {
	if r.IsAdmin(userID) {
		return
	}
	r.Admins = append(r.Admins, userID)
	r.ModifiedAt = now.Unix()
}

// RemoveAdmin revokes admin rights. The last admin cannot be removed.
func (r *Room) RemoveAdmin(userID string, now time.Time) error {
	if !r.IsAdmin(userID) {
		return nil
	}
	remaining := slices.DeleteFunc(slices.Clone(r.Admins), func(a string) bool { return a == userID })
	if len(remaining) == 0 {
		return pkgerrors.NewEmptyAdminsListError()
	}
	r.Admins = remaining
	r.ModifiedAt = now.Unix()
	return nil
}

// Clone returns a deep copy
func (r *Room) Clone() *Room {
	c := *r
	c.Leagues = slices.Clone(r.Leagues)
	c.Admins = slices.Clone(r.Admins)
	return &c
}

func (r *Room) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.NewValidationError("room_name is required")
	}
	if len([]rune(name)) > MaxRoomNameLength {
		return pkgerrors.NewValidationError("room_name must be at most 100 characters")
	}
	r.Name = name
	return nil
}

func (r *Room) setLeagues(leagues []string) error {
	parsed, err := valueobjects.ParseLeagues(leagues)
	if err != nil {
		return err
	}
	r.Leagues = parsed
	return nil
}

func (r *Room) setAdmins(admins []string) error {
	out := make([]string, 0, len(admins))
	for _, a := range admins {
		a = strings.TrimSpace(a)
		if a != "" && !slices.Contains(out, a) {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return pkgerrors.NewEmptyAdminsListError()
	}
	r.Admins = out
	return nil
}

func validateDateRange(start, end int64) error {
	if start <= 0 || end <= 0 || start > end {
		return pkgerrors.NewInvalidDateRangeError()
	}
	return nil
}

func validateDescription(desc string) error {
	if len([]rune(desc)) > MaxDescriptionLength {
		return pkgerrors.NewValidationError("description must be at most 500 characters")
	}
	return nil
}
