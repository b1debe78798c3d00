package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionWithCountedMatches(t *testing.T, matches ...*Match) *Session {
	t.Helper()
	s := NewSession("s1", ModeCompetitiveVariety, SessionDoubles, 4, DefaultConfig())
	s.Matches = matches
	return s
}

func TestBuildHistoryIndexSkipsNonCountedMatches(t *testing.T) {
	counted := &Match{ID: "m1", Status: MatchCompleted, Team1: []string{"a", "b"}, Team2: []string{"c", "d"}}
	forfeited := &Match{ID: "m2", Status: MatchForfeited, Team1: []string{"a", "c"}, Team2: []string{"b", "d"}}
	inProgress := &Match{ID: "m3", Status: MatchInProgress, Team1: []string{"a", "d"}, Team2: []string{"b", "c"}}

	s := sessionWithCountedMatches(t, counted, forfeited, inProgress)
	idx := BuildHistoryIndex(s)

	require.Len(t, idx.Counted, 2)
	assert.Equal(t, []int{0, 1}, idx.PersonalHistory["a"])
}

func TestPartnerAndOpponentCount(t *testing.T) {
	m1 := &Match{ID: "m1", Status: MatchCompleted, Team1: []string{"a", "b"}, Team2: []string{"c", "d"}}
	m2 := &Match{ID: "m2", Status: MatchCompleted, Team1: []string{"a", "c"}, Team2: []string{"b", "d"}}
	s := sessionWithCountedMatches(t, m1, m2)
	idx := BuildHistoryIndex(s)

	assert.Equal(t, 1, idx.PartnerCount("a", "b"))
	assert.Equal(t, 1, idx.PartnerCount("a", "c"))
	assert.Equal(t, 1, idx.OpponentCount("a", "d"))
	assert.Equal(t, 0, idx.PartnerCount("a", "d"))
}

func TestInterveningSinceCountsLaterGames(t *testing.T) {
	m1 := &Match{ID: "m1", Status: MatchCompleted, Team1: []string{"a", "b"}, Team2: []string{"c", "d"}}
	m2 := &Match{ID: "m2", Status: MatchCompleted, Team1: []string{"a", "c"}, Team2: []string{"b", "d"}}
	m3 := &Match{ID: "m3", Status: MatchCompleted, Team1: []string{"a", "d"}, Team2: []string{"b", "c"}}
	s := sessionWithCountedMatches(t, m1, m2, m3)
	idx := BuildHistoryIndex(s)

	assert.Equal(t, 2, idx.InterveningSince("a", 0))
	assert.Equal(t, 0, idx.InterveningSince("a", 2))
}

func TestMostRecentRelationForFindsRelationAndGap(t *testing.T) {
	m1 := &Match{ID: "m1", Status: MatchCompleted, Team1: []string{"a", "b"}, Team2: []string{"c", "d"}}
	m2 := &Match{ID: "m2", Status: MatchCompleted, Team1: []string{"a", "e"}, Team2: []string{"f", "g"}}
	s := sessionWithCountedMatches(t, m1, m2)
	idx := BuildHistoryIndex(s)

	intervening, ok := idx.MostRecentRelationFor("a", "b", RolePartner)
	require.True(t, ok)
	assert.Equal(t, 1, intervening)

	_, ok = idx.MostRecentRelationFor("a", "z", RolePartner)
	assert.False(t, ok)
}
