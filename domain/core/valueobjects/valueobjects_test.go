package valueobjects

import (
	"testing"

	pkgerrors "fortunasbet-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeague(t *testing.T) {
	l, err := ParseLeague(" nfl ")
	require.NoError(t, err)
	assert.Equal(t, LeagueNFL, l)

	_, err = ParseLeague("MLB")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidLeague))
}

func TestParseLeagues(t *testing.T) {
	leagues, err := ParseLeagues([]string{"NBA", "nfl", "NBA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"NBA", "NFL"}, leagues)

	_, err = ParseLeagues(nil)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyLeagueList))

	_, err = ParseLeagues([]string{"NFL", "NHL"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidLeague))
}

func TestSupportedLeaguesIsACopy(t *testing.T) {
	leagues := SupportedLeagues()
	leagues[0] = "XFL"
	assert.Equal(t, []string{"NFL", "NBA"}, SupportedLeagueNames())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("Purple")
	require.NoError(t, err)
	assert.Equal(t, ProfileColor("purple"), c)

	_, err = ParseColor("magenta")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidColor))
	assert.Len(t, AllowedColorNames(), 12)
}

func TestParseMembershipStatusAndType(t *testing.T) {
	s, err := ParseMembershipStatus("APPROVED")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, s)

	_, err = ParseMembershipStatus("banned")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidMembershipStatus))

	mt, err := ParseMembershipType("Admin")
	require.NoError(t, err)
	assert.Equal(t, TypeAdmin, mt)
	assert.True(t, mt.IsRole())
	assert.False(t, TypeInvitation.IsRole())

	_, err = ParseMembershipType("owner")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidMembershipType))
}

func TestStatusSortPriority(t *testing.T) {
	assert.Less(t, StatusApproved.SortPriority(), StatusPending.SortPriority())
	assert.Less(t, StatusPending.SortPriority(), StatusDenied.SortPriority())
}
