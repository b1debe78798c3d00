// internal/core/outcomedependency.go
// Component 11: Outcome-Dependency Analyzer. Predicts, for each waiting
// player, which in-progress court(s) finishing - and under which outcome -
// would seat them next. Pure: operates entirely on deep-copied sessions.

package core

// CourtOutcome names one of the two hypothetical results for an in-progress
// match used as a trial completion.
type CourtOutcome string

const (
	OutcomeTeam1Wins CourtOutcome = "team1_wins"
	OutcomeTeam2Wins CourtOutcome = "team2_wins"
)

// DependencyResult maps a waiting player to the set of (court, outcome)
// trials under which the trial run seated them.
type DependencyResult struct {
	ByPlayer map[string][]CourtDependency
}

// CourtDependency names one court/outcome pair that would seat a player.
type CourtDependency struct {
	Court   int
	Outcome CourtOutcome
}

// AnalyzeOutcomeDependency implements spec.md §4.8. now drives the trial
// generator runs; each trial seeds its own deterministic RNG derived from
// the court and outcome, so the real session's RNG stream is never advanced
// by a hypothetical.
func AnalyzeOutcomeDependency(session *Session, now float64) DependencyResult {
	result := DependencyResult{ByPlayer: make(map[string][]CourtDependency)}

	waitingBefore := make(map[string]bool)
	for _, id := range session.WaitingPlayers() {
		waitingBefore[id] = true
	}

	for _, m := range session.NonTerminalMatches() {
		if m.Status != MatchInProgress {
			continue
		}
		for _, outcome := range []CourtOutcome{OutcomeTeam1Wins, OutcomeTeam2Wins} {
			seated := runTrial(session, m.ID, outcome, now)
			for _, id := range seated {
				if !waitingBefore[id] {
					continue
				}
				result.ByPlayer[id] = append(result.ByPlayer[id], CourtDependency{Court: m.Court, Outcome: outcome})
			}
		}
	}

	return result
}

// runTrial deep-copies session, applies a plausible score for the named
// outcome to matchID, runs the real generator, and returns the ids of
// players who moved from waiting to playing as a result.
func runTrial(session *Session, matchID string, outcome CourtOutcome, now float64) []string {
	trial := session.DeepCopy()
	m := trial.MatchByID(matchID)
	if m == nil || m.Status != MatchInProgress {
		return nil
	}

	waitingBefore := make(map[string]bool)
	for _, id := range trial.WaitingPlayers() {
		waitingBefore[id] = true
	}

	score1, score2 := plausibleScore(outcome)
	m.Score = &Score{Team1Points: score1, Team2Points: score2}
	m.Status = MatchCompleted
	applyMatchOutcome(trial, m, outcome == OutcomeTeam1Wins, true)

	trialRNG := NewRNG(SeedFromSessionID(trial.ID + "|" + matchID + "|" + string(outcome)))
	switch trial.Mode {
	case ModeCompetitiveVariety:
		PopulateEmptyCourtsCompetitiveVariety(trial, now, trialRNG)
	case ModeKingOfTheCourt:
		AdvanceRoundKingOfTheCourt(trial, now, trialRNG)
	}

	playingAfter := trial.PlayingPlayers()
	seated := make([]string, 0)
	for id := range waitingBefore {
		if playingAfter[id] {
			seated = append(seated, id)
		}
	}
	return seated
}

// plausibleScore returns a representative, non-tied score for a trial
// completion - the exact margin does not influence seating in downstream
// generators, which consume only win/loss and games_played.
func plausibleScore(outcome CourtOutcome) (int, int) {
	if outcome == OutcomeTeam1Wins {
		return 11, 7
	}
	return 7, 11
}
