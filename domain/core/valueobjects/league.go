package valueobjects

import (
	"strings"

	pkgerrors "fortunasbet-api/pkg/errors"
)

// League is a sports league a room can be tied to
type League string

const (
	LeagueNFL League = "NFL"
	LeagueNBA League = "NBA"
)

var supportedLeagues = []League{LeagueNFL, LeagueNBA}

// SupportedLeagues returns the leagues rooms may use
func SupportedLeagues() []League {
	out := make([]League, len(supportedLeagues))
	copy(out, supportedLeagues)
	return out
}

// SupportedLeagueNames returns the supported leagues as strings
func SupportedLeagueNames() []string {
	names := make([]string, len(supportedLeagues))
	for i, l := range supportedLeagues {
		names[i] = string(l)
	}
	return names
}

// ParseLeague normalizes and validates a league name
func ParseLeague(value string) (League, error) {
	candidate := League(strings.ToUpper(strings.TrimSpace(value)))
	for _, l := range supportedLeagues {
		if l == candidate {
			return l, nil
		}
	}
	return "", pkgerrors.NewInvalidLeagueError(value, SupportedLeagueNames())
}

// ParseLeagues validates a room's league list, dropping duplicates
func ParseLeagues(values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, pkgerrors.NewEmptyLeagueListError()
	}

	seen := make(map[League]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		l, err := ParseLeague(v)
		if err != nil {
			return nil, err
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, string(l))
		}
	}
	return out, nil
}
