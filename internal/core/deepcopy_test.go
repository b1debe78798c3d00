package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepCopyIsFullyIndependent(t *testing.T) {
	s := newActiveSession(2, map[string]int{"a": 1, "b": 1, "c": 1, "d": 1})
	seed := 1600
	s.Players["a"].SeedRating = &seed
	s.Stats["a"].WaitStart = floatPtr(5)
	s.Matches = append(s.Matches, &Match{
		ID: "m1", Status: MatchCompleted, Court: 1,
		Team1: []string{"a", "b"}, Team2: []string{"c", "d"},
		Score: &Score{Team1Points: 11, Team2Points: 6},
	})
	s.BannedPairs[NewPairKey("a", "b")] = true
	manual := 2.0
	s.ManualBalanceWeight = &manual

	cp := s.DeepCopy()

	// Mutating the copy must never touch the original.
	cp.Players["a"].Active = false
	*cp.Players["a"].SeedRating = 999
	cp.Stats["a"].GamesPlayed = 50
	*cp.Stats["a"].WaitStart = 999
	cp.Matches[0].Team1[0] = "zzz"
	cp.Matches[0].Score.Team1Points = 0
	cp.BannedPairs[NewPairKey("a", "b")] = false
	*cp.ManualBalanceWeight = 9.0

	assert.True(t, s.Players["a"].Active)
	assert.Equal(t, 1600, *s.Players["a"].SeedRating)
	assert.Equal(t, 1, s.Stats["a"].GamesPlayed)
	assert.Equal(t, float64(5), *s.Stats["a"].WaitStart)
	assert.Equal(t, "a", s.Matches[0].Team1[0])
	assert.Equal(t, 11, s.Matches[0].Score.Team1Points)
	assert.True(t, s.BannedPairs[NewPairKey("a", "b")])
	assert.Equal(t, 2.0, *s.ManualBalanceWeight)
}

func TestDeepCopyPreservesKotCState(t *testing.T) {
	s := newKotCSession(2, []string{"a", "b", "c", "d", "e"})
	rng := NewRNG(1)
	require.True(t, InitializeKingOfTheCourt(s, 0, rng))

	cp := s.DeepCopy()
	require.NotNil(t, cp.KotC)
	cp.KotC.WaitCounts["a"] = 999
	cp.KotC.PlayerPositions["a"] = 999

	assert.NotEqual(t, 999, s.KotC.WaitCounts["a"])
	assert.NotEqual(t, 999, s.KotC.PlayerPositions["a"])
	assert.Equal(t, s.KotC.RoundNumber, cp.KotC.RoundNumber)
}

func floatPtr(v float64) *float64 { return &v }
