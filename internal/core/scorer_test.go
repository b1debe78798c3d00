package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoringContextFor(s *Session, rng *RNG) ScoringContext {
	history := BuildHistoryIndex(s)
	ratings := BuildRatingSnapshot(s)
	phase := ComputePhaseState(s)
	wait := ComputeWaitPriority(s, 1000, rng)
	gate := NewConstraintGate(s, history, ratings, phase)
	return ScoringContext{Session: s, Ratings: ratings, History: history, Phase: phase, Wait: wait, Gate: gate}
}

func TestScoreArrangementRejectsBannedPartners(t *testing.T) {
	s := newActiveSession(1, map[string]int{"a": 0, "b": 0, "c": 0, "d": 0})
	s.BannedPairs[NewPairKey("a", "b")] = true
	rng := NewRNG(1)
	ctx := scoringContextFor(s, rng)

	score := ScoreArrangement(ctx, []string{"a", "b"}, []string{"c", "d"})
	assert.True(t, math.IsInf(score, -1))
}

func TestScoreArrangementRewardsBalance(t *testing.T) {
	s := newActiveSession(1, map[string]int{"a": 0, "b": 0, "c": 0, "d": 0})
	rng := NewRNG(1)
	ctx := scoringContextFor(s, rng)

	balanced := ScoreArrangement(ctx, []string{"a", "b"}, []string{"c", "d"})
	require.False(t, math.IsInf(balanced, -1))
	assert.Greater(t, balanced, math.Inf(-1))
}

func TestScoreArrangementPenalizesRepeatedPartners(t *testing.T) {
	s := newActiveSession(1, map[string]int{"a": 1, "b": 1, "c": 1, "d": 1})
	s.Matches = append(s.Matches, &Match{
		ID: "m1", Status: MatchCompleted,
		Team1: []string{"a", "b"}, Team2: []string{"c", "d"},
	})
	rng := NewRNG(1)
	ctx := scoringContextFor(s, rng)
	// a+b paired again violates the small-session gap and should be
	// rejected outright rather than merely scored lower.
	score := ScoreArrangement(ctx, []string{"a", "b"}, []string{"c", "d"})
	assert.True(t, math.IsInf(score, -1))
}
