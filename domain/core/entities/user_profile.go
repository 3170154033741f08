package entities

import (
	"strings"
	"time"

	"fortunasbet-api/domain/core/valueobjects"
	pkgerrors "fortunasbet-api/pkg/errors"
)

const MaxUserNameLength = 50

// UserProfile is the application-side view of an identity provider user
type UserProfile struct {
	UserID       string                    `json:"user_id"`
	Email        string                    `json:"email"`
	Name         string                    `json:"name"`
	Color        valueobjects.ProfileColor `json:"color"`
	CreatedAt    int64                     `json:"created_at"`
	LastActiveAt int64                     `json:"last_active_at,omitempty"`
}

// PublicProfile is what other users may see
type PublicProfile struct {
	UserID string                    `json:"user_id"`
	Name   string                    `json:"name"`
	Color  valueobjects.ProfileColor `json:"color"`
}

// NewUserProfile creates a profile with the default color.
// Names longer than the limit are truncated since they come from token claims.
func NewUserProfile(userID, email, name string, now time.Time) (*UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.NewInvalidUserIDError()
	}
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > MaxUserNameLength {
		name = string(r[:MaxUserNameLength])
	}
	return &UserProfile{
		UserID:       userID,
		Email:        strings.TrimSpace(email),
		Name:         name,
		Color:        valueobjects.DefaultColor,
		CreatedAt:    now.Unix(),
		LastActiveAt: now.Unix(),
	}, nil
}

// ProfileUpdate carries the optional fields of a profile edit
type ProfileUpdate struct {
	Name  *string
	Email *string
	Color *string
}

// IsEmpty reports whether the update changes nothing
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Color == nil
}

// ApplyUpdate validates and applies an edit, returning the changed field names
func (p *UserProfile) ApplyUpdate(u ProfileUpdate) ([]string, error) {
	if u.IsEmpty() {
		return nil, pkgerrors.NewNoFieldsToUpdateError()
	}

	next := *p
	var changed []string

	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if len([]rune(name)) > MaxUserNameLength {
			return nil, pkgerrors.NewUserNameTooLongError(MaxUserNameLength)
		}
		next.Name = name
		changed = append(changed, "name")
	}
	if u.Email != nil {
		next.Email = strings.TrimSpace(*u.Email)
		changed = append(changed, "email")
	}
	if u.Color != nil {
		color, err := valueobjects.ParseColor(*u.Color)
		if err != nil {
			return nil, err
		}
		next.Color = color
		changed = append(changed, "color")
	}

	*p = next
	return changed, nil
}

// Public returns the fields visible to other users
func (p *UserProfile) Public() PublicProfile {
	return PublicProfile{UserID: p.UserID, Name: p.Name, Color: p.Color}
}
