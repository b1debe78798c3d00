package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestratorAddPlayerSeatsWhenEnoughActive(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionDoubles, 1, DefaultConfig())
	o := NewOrchestrator(s, NewFixedClock(0), NewRNG(1))

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, o.AddPlayer(id, id, nil))
	}
	assert.Empty(t, s.NonTerminalMatches())

	require.NoError(t, o.AddPlayer("d", "d", nil))
	assert.Len(t, s.NonTerminalMatches(), 1)
}

func TestOrchestratorAddPlayerRejectsDuplicate(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionDoubles, 1, DefaultConfig())
	o := NewOrchestrator(s, NewFixedClock(0), NewRNG(1))
	require.NoError(t, o.AddPlayer("a", "A", nil))
	err := o.AddPlayer("a", "A", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrchestratorRemovePlayerForfeitsNonTerminalMatch(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionDoubles, 1, DefaultConfig())
	o := NewOrchestrator(s, NewFixedClock(0), NewRNG(2))
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, o.AddPlayer(id, id, nil))
	}
	require.Len(t, s.NonTerminalMatches(), 1)
	m := s.NonTerminalMatches()[0]
	victim := m.Players()[0]

	require.NoError(t, o.RemovePlayer(victim))

	found := s.MatchByID(m.ID)
	require.NotNil(t, found)
	assert.Equal(t, MatchForfeited, found.Status)
	assert.False(t, s.ActiveIDs[victim])
}

func TestOrchestratorRemovePlayerRejectsUnknownOrInactive(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionDoubles, 1, DefaultConfig())
	o := NewOrchestrator(s, NewFixedClock(0), NewRNG(2))
	assert.ErrorIs(t, o.RemovePlayer("ghost"), ErrInvalidInput)

	require.NoError(t, o.AddPlayer("a", "A", nil))
	require.NoError(t, o.RemovePlayer("a"))
	assert.ErrorIs(t, o.RemovePlayer("a"), ErrStateConflict)
}

func TestOrchestratorCompleteMatchValidatesScoreAndState(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionDoubles, 1, DefaultConfig())
	o := NewOrchestrator(s, NewFixedClock(0), NewRNG(3))
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, o.AddPlayer(id, id, nil))
	}
	m := s.NonTerminalMatches()[0]

	assert.ErrorIs(t, o.CompleteMatch("missing", 11, 5), ErrStateConflict)
	assert.ErrorIs(t, o.CompleteMatch(m.ID, 11, 11), ErrInvalidInput)

	require.NoError(t, o.CompleteMatch(m.ID, 11, 5))
	assert.ErrorIs(t, o.CompleteMatch(m.ID, 11, 5), ErrInvalidInput)
}

// Scenario 6 (spec §8.6): a forfeited match still counts toward
// partner/opponent recency even though it never touched wins/losses. Built
// directly against Session/applyMatchOutcome rather than the Orchestrator so
// the generator's own repetition gating can't interfere with the fixture.
func TestScenarioForfeitCountsForRecencyNotForWinLoss(t *testing.T) {
	s := newActiveSession(2, map[string]int{"a": 0, "b": 0, "c": 0, "d": 0, "e": 0, "f": 0})

	m1 := &Match{ID: "m1", Court: 1, Status: MatchInProgress, Team1: []string{"a", "b"}, Team2: []string{"c", "d"}, CreatedAt: 0}
	s.Matches = append(s.Matches, m1)
	m1.Status = MatchCompleted
	m1.Score = &Score{Team1Points: 11, Team2Points: 5}
	applyMatchOutcome(s, m1, true, true)

	m2 := &Match{ID: "m2", Court: 1, Status: MatchInProgress, Team1: []string{"a", "b"}, Team2: []string{"e", "f"}, CreatedAt: 10}
	s.Matches = append(s.Matches, m2)
	m2.Status = MatchForfeited
	applyMatchOutcome(s, m2, false, false)

	statsA := s.Stats["a"]
	assert.Equal(t, 1, statsA.Wins)
	assert.Equal(t, 0, statsA.Losses)

	history := BuildHistoryIndex(s)
	assert.Equal(t, 2, history.PartnerCount("a", "b"))

	gate := gateFor(s)
	assert.False(t, gate.CanPlay("a", "b", RolePartner, false))
}

func TestOrchestratorEvaluateIsIdempotentWithNoChange(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionDoubles, 1, DefaultConfig())
	o := NewOrchestrator(s, NewFixedClock(0), NewRNG(4))
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, o.AddPlayer(id, id, nil))
	}
	versionBefore := s.Version()
	matchesBefore := len(s.Matches)

	o.Evaluate()

	assert.Equal(t, matchesBefore, len(s.Matches))
	assert.Equal(t, versionBefore, s.Version())
}

func TestOrchestratorSetBannedPairAndLockedTeam(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionDoubles, 1, DefaultConfig())
	o := NewOrchestrator(s, NewFixedClock(0), NewRNG(5))
	require.NoError(t, o.AddPlayer("a", "A", nil))
	require.NoError(t, o.AddPlayer("b", "B", nil))

	require.NoError(t, o.SetBannedPair("a", "b", true))
	assert.True(t, s.BannedPairs[NewPairKey("a", "b")])
	require.NoError(t, o.SetBannedPair("a", "b", false))
	assert.False(t, s.BannedPairs[NewPairKey("a", "b")])

	require.NoError(t, o.SetLockedTeam("a", "b", true))
	assert.True(t, s.LockedTeams[NewPairKey("a", "b")])

	assert.ErrorIs(t, o.SetBannedPair("a", "ghost", false), ErrInvalidInput)
}

func TestOrchestratorSetLockedTeamRejectsSingles(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionSingles, 1, DefaultConfig())
	o := NewOrchestrator(s, NewFixedClock(0), NewRNG(5))
	require.NoError(t, o.AddPlayer("a", "A", nil))
	require.NoError(t, o.AddPlayer("b", "B", nil))
	assert.ErrorIs(t, o.SetLockedTeam("a", "b", true), ErrInvalidInput)
}

func TestCheckInvariantsPassesOnHealthySession(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionDoubles, 1, DefaultConfig())
	o := NewOrchestrator(s, NewFixedClock(0), NewRNG(5))
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, o.AddPlayer(id, id, nil))
	}
	assert.NotPanics(t, func() { o.CheckInvariants() })
}

func TestCheckInvariantsPanicsOnDuplicateCourtAssignment(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionDoubles, 2, DefaultConfig())
	s.Players["a"] = &Player{ID: "a", Active: true}
	s.ActiveIDs["a"] = true
	s.Stats["a"] = &PlayerStats{PlayerID: "a"}
	s.Matches = append(s.Matches,
		&Match{ID: "m1", Court: 1, Status: MatchInProgress, Team1: []string{"a"}, Team2: []string{"b"}},
		&Match{ID: "m2", Court: 1, Status: MatchInProgress, Team1: []string{"c"}, Team2: []string{"d"}},
	)
	assert.Panics(t, func() { checkInvariants(s) })
}
