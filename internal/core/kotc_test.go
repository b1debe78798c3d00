package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKotCSession(numCourts int, playerIDs []string) *Session {
	s := NewSession("kotc-session", ModeKingOfTheCourt, SessionDoubles, numCourts, DefaultConfig())
	for _, id := range playerIDs {
		s.Players[id] = &Player{ID: id, Active: true}
		s.ActiveIDs[id] = true
		s.Stats[id] = &PlayerStats{PlayerID: id}
	}
	return s
}

func completeCurrentRound(s *Session) {
	for _, m := range s.NonTerminalMatches() {
		m.Status = MatchCompleted
		m.Score = &Score{Team1Points: 11, Team2Points: 7}
		applyMatchOutcome(s, m, true, true)
	}
}

func teammatesOf(m *Match) [][2]string {
	out := make([][2]string, 0, 2)
	if len(m.Team1) == 2 {
		out = append(out, [2]string{m.Team1[0], m.Team1[1]})
	}
	if len(m.Team2) == 2 {
		out = append(out, [2]string{m.Team2[0], m.Team2[1]})
	}
	return out
}

func teammatePairsInRound(matches []*Match, round int) map[PairKey]bool {
	out := make(map[PairKey]bool)
	for _, m := range matches {
		if m.KotCRound != round {
			continue
		}
		for _, pair := range teammatesOf(m) {
			out[NewPairKey(pair[0], pair[1])] = true
		}
	}
	return out
}

// Scenario 5 (spec §8.5): 19 players, 4 courts, doubles. Every round seats
// exactly 4 matches and leaves exactly 3 waiters; no round-r teammate pair
// reappears as teammates in round r+1.
func TestScenarioKotCNineteenPlayersFourCourtsSixRounds(t *testing.T) {
	ids := make([]string, 19)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	s := newKotCSession(4, ids)
	rng := NewRNG(19)

	ok := InitializeKingOfTheCourt(s, 0, rng)
	require.True(t, ok)

	for round := 1; round <= 6; round++ {
		matches := s.NonTerminalMatches()
		require.Lenf(t, matches, 4, "round %d should have exactly 4 active matches", round)

		seated := make(map[string]bool)
		for _, m := range matches {
			assert.Len(t, m.Players(), 4)
			for _, id := range m.Players() {
				seated[id] = true
			}
		}
		assert.Lenf(t, seated, 16, "round %d should seat exactly 16 of 19 players", round)
		assert.Equal(t, 3, len(ids)-len(seated))

		prevRoundPairs := teammatePairsInRound(s.Matches, round)

		completeCurrentRound(s)
		advanced := AdvanceRoundKingOfTheCourt(s, float64(round)*100, rng)
		require.True(t, advanced)

		nextRoundPairs := teammatePairsInRound(s.Matches, round+1)
		for pair := range nextRoundPairs {
			assert.Falsef(t, prevRoundPairs[pair], "pair %s repeated as teammates in round %d", pair, round+1)
		}
	}

	total := 0
	for _, id := range ids {
		total += s.KotC.WaitCounts[id]
	}
	assert.Greater(t, total, 0)
}

func TestInitializeKingOfTheCourtIsNoOpOnceStarted(t *testing.T) {
	s := newKotCSession(1, []string{"a", "b", "c", "d"})
	rng := NewRNG(1)
	require.True(t, InitializeKingOfTheCourt(s, 0, rng))
	assert.False(t, InitializeKingOfTheCourt(s, 10, rng))
	assert.Equal(t, 1, s.KotC.RoundNumber)
}

func TestAdvanceRoundKingOfTheCourtNoOpWhileMatchesInProgress(t *testing.T) {
	s := newKotCSession(1, []string{"a", "b", "c", "d"})
	rng := NewRNG(1)
	InitializeKingOfTheCourt(s, 0, rng)

	assert.False(t, AdvanceRoundKingOfTheCourt(s, 10, rng))
}
