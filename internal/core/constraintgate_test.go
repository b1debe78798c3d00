package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateFor(s *Session) *ConstraintGate {
	history := BuildHistoryIndex(s)
	ratings := BuildRatingSnapshot(s)
	phase := ComputePhaseState(s)
	return NewConstraintGate(s, history, ratings, phase)
}

func TestConstraintGateBannedPairBlocksPartnering(t *testing.T) {
	s := newActiveSession(2, map[string]int{"a": 0, "b": 0})
	s.BannedPairs[NewPairKey("a", "b")] = true

	gate := gateFor(s)
	assert.False(t, gate.CanPlay("a", "b", RolePartner, false))
	assert.True(t, gate.CanPlay("a", "b", RoleOpponent, false))
}

func TestConstraintGateLockedTeamRequiresPartnerRole(t *testing.T) {
	s := newActiveSession(2, map[string]int{"a": 0, "b": 0})
	s.LockedTeams[NewPairKey("a", "b")] = true

	gate := gateFor(s)
	assert.True(t, gate.CanPlay("a", "b", RolePartner, false))
	assert.False(t, gate.CanPlay("a", "b", RoleOpponent, false))
}

func TestConstraintGateRecentPartnersBlockedBySmallSessionGap(t *testing.T) {
	s := newActiveSession(2, map[string]int{"a": 1, "b": 1, "c": 1, "d": 1})
	s.Matches = append(s.Matches, &Match{
		ID: "m1", Status: MatchCompleted,
		Team1: []string{"a", "b"}, Team2: []string{"c", "d"},
	})

	gate := gateFor(s)
	// Small session (< SmallSessionThreshold) forces a required gap of 1,
	// so the very next pass still can't immediately re-pair a and b.
	assert.False(t, gate.CanPlay("a", "b", RolePartner, false))
	assert.True(t, gate.CanPlay("a", "c", RolePartner, false))
}

func TestConstraintGatePOPPatternBlocksImmediateOpponentToPartnerFlip(t *testing.T) {
	s := newActiveSession(2, map[string]int{"a": 1, "b": 1, "c": 1, "d": 1, "e": 1, "f": 1})
	s.Matches = append(s.Matches, &Match{
		ID: "m1", Status: MatchCompleted,
		Team1: []string{"a", "c"}, Team2: []string{"b", "d"},
	})
	manual := 3.0
	s.ManualBalanceWeight = &manual

	gate := gateFor(s)
	require.GreaterOrEqual(t, gate.phase.EffectiveBalanceWeight, 3.0)
	// a and b were just opponents; neither has an intervening game, so they
	// may not become partners yet under the POP rule.
	assert.False(t, gate.CanPlay("a", "b", RolePartner, false))
}
