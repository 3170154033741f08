package valueobjects

import (
	"strings"

	pkgerrors "fortunasbet-api/pkg/errors"
)

// ProfileColor is the avatar color on a user profile
type ProfileColor string

// DefaultColor is assigned to new profiles
const DefaultColor ProfileColor = "black"

var allowedColors = []ProfileColor{
	"black", "white", "red", "blue", "green", "yellow",
	"orange", "purple", "pink", "brown", "gray", "cyan",
}

// AllowedColorNames returns the colors a profile may use
func AllowedColorNames() []string {
	names := make([]string, len(allowedColors))
	for i, c := range allowedColors {
		names[i] = string(c)
	}
	return names
}

// ParseColor validates a color case-insensitively and returns it lowercased
func ParseColor(value string) (ProfileColor, error) {
	candidate := ProfileColor(strings.ToLower(strings.TrimSpace(value)))
	for _, c := range allowedColors {
		if c == candidate {
			return c, nil
		}
	}
	return "", pkgerrors.NewInvalidColorError(value, AllowedColorNames())
}
