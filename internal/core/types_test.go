package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPairKeyNormalizes(t *testing.T) {
	require.Equal(t, NewPairKey("a", "b"), NewPairKey("b", "a"))
	assert.NotEqual(t, NewPairKey("a", "b"), NewPairKey("a", "c"))
}

func TestMatchHasAndPlayers(t *testing.T) {
	m := &Match{Team1: []string{"p1", "p2"}, Team2: []string{"p3", "p4"}}
	assert.True(t, m.Has("p3"))
	assert.False(t, m.Has("p9"))
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, m.Players())
}

func TestMatchStatusTerminal(t *testing.T) {
	assert.False(t, MatchWaiting.Terminal())
	assert.False(t, MatchInProgress.Terminal())
	assert.True(t, MatchCompleted.Terminal())
	assert.True(t, MatchForfeited.Terminal())
}

func TestSessionWaitingAndPlayingPlayers(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionDoubles, 2, DefaultConfig())
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		s.Players[id] = &Player{ID: id, Active: true}
		s.ActiveIDs[id] = true
		s.Stats[id] = &PlayerStats{PlayerID: id}
	}
	s.Matches = append(s.Matches, &Match{
		ID: "m1", Court: 1, Status: MatchInProgress,
		Team1: []string{"p1", "p2"}, Team2: []string{"p3", "p4"},
	})

	playing := s.PlayingPlayers()
	assert.True(t, playing["p1"])
	assert.False(t, playing["p5"])

	waiting := s.WaitingPlayers()
	assert.ElementsMatch(t, []string{"p5"}, waiting)
}

func TestSessionMatchLookups(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionSingles, 2, DefaultConfig())
	m := &Match{ID: "m1", Court: 1, Status: MatchInProgress, Team1: []string{"p1"}, Team2: []string{"p2"}}
	s.Matches = append(s.Matches, m)

	assert.Equal(t, m, s.MatchByID("m1"))
	assert.Nil(t, s.MatchByID("missing"))
	assert.Equal(t, m, s.MatchByCourt(1))
	assert.Nil(t, s.MatchByCourt(2))
}

func TestSessionVersionBumpsOnMutation(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionSingles, 1, DefaultConfig())
	before := s.Version()
	s.bumpVersion()
	assert.Equal(t, before+1, s.Version())
}

func TestSessionTypePlayerCounts(t *testing.T) {
	assert.Equal(t, 1, SessionSingles.PlayersPerTeam())
	assert.Equal(t, 2, SessionSingles.PlayersPerMatch())
	assert.Equal(t, 2, SessionDoubles.PlayersPerTeam())
	assert.Equal(t, 4, SessionDoubles.PlayersPerMatch())
}
