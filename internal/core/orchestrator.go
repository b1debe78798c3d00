// internal/core/orchestrator.go
// Component 10: Session Orchestrator. The sole mutator of Session state -
// every other component in this package is pure or append-only and reached
// only from here.

package core

import "sync"

// Orchestrator serializes every mutating call against one session, the way
// the teacher's services guard a shared resource with a single mutex rather
// than fine-grained locks per field.
type Orchestrator struct {
	mu      sync.Mutex
	session *Session
	clock   Clock
	rng     *RNG
}

// NewOrchestrator wraps a session with the clock and RNG that drive match
// generation and wait-time bookkeeping.
func NewOrchestrator(session *Session, clock Clock, rng *RNG) *Orchestrator {
	return &Orchestrator{session: session, clock: clock, rng: rng}
}

// Session returns the live session pointer. Callers must treat it as
// read-only; mutate only through the Orchestrator's methods.
func (o *Orchestrator) Session() *Session {
	return o.session
}

// AddPlayer registers a new player and marks them active. For King-of-the-
// Court sessions already in progress, the player joins the waitlist and
// enters on the next round advance; they are not seated mid-round.
func (o *Orchestrator) AddPlayer(id, displayName string, seedRating *int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.session.Players[id]; exists {
		return ErrDuplicatePlayer
	}

	o.session.Players[id] = &Player{ID: id, DisplayName: displayName, Active: true, SeedRating: seedRating}
	o.session.ActiveIDs[id] = true
	o.session.Stats[id] = &PlayerStats{PlayerID: id}

	if o.session.KotC != nil {
		o.session.KotC.WaitCounts[id] = 0
	}

	o.session.bumpVersion()
	o.runGenerator()
	return nil
}

// RemovePlayer marks a player inactive, forfeiting any non-terminal match
// they are currently in, then triggers the generator.
func (o *Orchestrator) RemovePlayer(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.session.Players[id]; !exists {
		return ErrUnknownPlayer
	}
	if !o.session.ActiveIDs[id] {
		return ErrPlayerNotActive
	}

	for _, m := range o.session.NonTerminalMatches() {
		if m.Has(id) {
			m.Status = MatchForfeited
			o.applyMatchStats(m, false, false)
		}
	}

	o.session.ActiveIDs[id] = false
	if st := o.session.Stats[id]; st != nil && st.WaitStart != nil {
		st.TotalWaitTime += o.clock.Now() - *st.WaitStart
		st.WaitStart = nil
	}
	o.session.bumpVersion()
	o.runGenerator()
	return nil
}

// waitingSnapshot returns the active players currently waiting, for the
// before/after comparison that drives games_waited bookkeeping.
func (o *Orchestrator) waitingSnapshot() map[string]bool {
	out := make(map[string]bool)
	for _, id := range o.session.WaitingPlayers() {
		out[id] = true
	}
	return out
}

// bumpGamesWaited increments games_waited exactly once for every player who
// was waiting before this call's generator ran and is still waiting after.
func (o *Orchestrator) bumpGamesWaited(before map[string]bool) {
	after := o.session.WaitingPlayers()
	for _, id := range after {
		if before[id] {
			if st := o.session.Stats[id]; st != nil {
				st.GamesWaited++
			}
		}
	}
}

// runGenerator invokes the mode-appropriate generator and applies the
// games_waited bookkeeping around it.
func (o *Orchestrator) runGenerator() {
	before := o.waitingSnapshot()
	now := o.clock.Now()
	switch o.session.Mode {
	case ModeCompetitiveVariety:
		PopulateEmptyCourtsCompetitiveVariety(o.session, now, o.rng)
	case ModeKingOfTheCourt:
		if o.session.KotC == nil || o.session.KotC.RoundNumber == 0 {
			InitializeKingOfTheCourt(o.session, now, o.rng)
		} else {
			AdvanceRoundKingOfTheCourt(o.session, now, o.rng)
		}
	}
	o.bumpGamesWaited(before)
}

// CompleteMatch records a final score, updates ratings inputs (wins, losses,
// points, games_played) for every participant exactly once, and triggers
// generation for the freed court(s); games_waited is bumped for the players
// still waiting after that generation.
func (o *Orchestrator) CompleteMatch(matchID string, team1Points, team2Points int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	m := o.session.MatchByID(matchID)
	if m == nil {
		return ErrMatchNotFound
	}
	if m.Status != MatchInProgress {
		return ErrMatchNotActive
	}
	if team1Points < 0 || team2Points < 0 || team1Points == team2Points {
		return ErrInvalidScore
	}

	m.Score = &Score{Team1Points: team1Points, Team2Points: team2Points}
	m.Status = MatchCompleted

	team1Won := team1Points > team2Points
	o.applyMatchStats(m, team1Won, true)

	o.session.bumpVersion()
	o.runGenerator()
	return nil
}

// ForfeitMatch ends a match without a counted score. Per the documented
// safer default, forfeited matches count toward partner/opponent recency
// (so the history index still blocks immediate re-pairing) but never touch
// wins, losses, or points.
func (o *Orchestrator) ForfeitMatch(matchID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	m := o.session.MatchByID(matchID)
	if m == nil {
		return ErrMatchNotFound
	}
	if m.Status != MatchInProgress {
		return ErrMatchNotActive
	}

	m.Status = MatchForfeited
	o.applyMatchStats(m, false, false)

	o.session.bumpVersion()
	o.runGenerator()
	return nil
}

// applyMatchStats increments games_played for every participant and, when
// counted is true, wins/losses/points per the reported score.
func (o *Orchestrator) applyMatchStats(m *Match, team1Won, counted bool) {
	applyMatchOutcome(o.session, m, team1Won, counted)
}

// applyMatchOutcome is the shared stats-update step used by the Orchestrator
// and, in trial mode, by the Outcome-Dependency Analyzer against a
// deep-copied session.
func applyMatchOutcome(session *Session, m *Match, team1Won, counted bool) {
	for _, id := range m.Players() {
		if st := session.Stats[id]; st != nil {
			st.GamesPlayed++
		}
	}
	if !counted || m.Score == nil {
		return
	}
	for _, id := range m.Team1 {
		st := session.Stats[id]
		st.PointsFor += m.Score.Team1Points
		st.PointsAgainst += m.Score.Team2Points
		if team1Won {
			st.Wins++
		} else {
			st.Losses++
		}
	}
	for _, id := range m.Team2 {
		st := session.Stats[id]
		st.PointsFor += m.Score.Team2Points
		st.PointsAgainst += m.Score.Team1Points
		if !team1Won {
			st.Wins++
		} else {
			st.Losses++
		}
	}
}

// Evaluate re-runs generation with no state change other than whatever the
// generator itself produces - useful after a manual ban/lock edit, or to
// retry a previously unsatisfiable court. Idempotent if nothing changed.
func (o *Orchestrator) Evaluate() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runGenerator()
}

// ChangeConfig replaces the tunable configuration, the manual balance-weight
// override, and the adaptive-disabled flag in one atomic step, then
// re-evaluates so the new settings take effect immediately.
func (o *Orchestrator) ChangeConfig(cfg Config, manualBalanceWeight *float64, adaptiveDisabled bool) {
	o.mu.Lock()
	o.session.Config = cfg
	o.session.ManualBalanceWeight = manualBalanceWeight
	o.session.AdaptiveDisabled = adaptiveDisabled
	o.session.bumpVersion()
	o.mu.Unlock()

	o.Evaluate()
}

// SetBannedPair marks a pair as never allowed to share a team.
func (o *Orchestrator) SetBannedPair(a, b string, banned bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.session.Players[a]; !ok {
		return ErrUnknownPlayer
	}
	if _, ok := o.session.Players[b]; !ok {
		return ErrUnknownPlayer
	}
	key := NewPairKey(a, b)
	if banned {
		o.session.BannedPairs[key] = true
	} else {
		delete(o.session.BannedPairs, key)
	}
	o.session.bumpVersion()
	return nil
}

// SetLockedTeam marks a pair as always seated together when both are
// eligible to play, doubles sessions only.
func (o *Orchestrator) SetLockedTeam(a, b string, locked bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.SessionType != SessionDoubles {
		return ErrInvalidInput
	}
	if _, ok := o.session.Players[a]; !ok {
		return ErrUnknownPlayer
	}
	if _, ok := o.session.Players[b]; !ok {
		return ErrUnknownPlayer
	}
	key := NewPairKey(a, b)
	if locked {
		o.session.LockedTeams[key] = true
	} else {
		delete(o.session.LockedTeams, key)
	}
	o.session.bumpVersion()
	return nil
}

// CheckInvariants validates session-wide invariants that should never be
// observable as false; a violation indicates a bug in this package, not bad
// caller input, so it panics with full diagnostic context per spec.md §7.
func (o *Orchestrator) CheckInvariants() {
	o.mu.Lock()
	defer o.mu.Unlock()
	checkInvariants(o.session)
}

func checkInvariants(session *Session) {
	seen := make(map[string]string)
	for _, m := range session.NonTerminalMatches() {
		for _, id := range m.Players() {
			if other, dup := seen[id]; dup {
				panicInvariant(session, "player on two courts simultaneously", map[string]interface{}{
					"player_id": id, "match_a": other, "match_b": m.ID,
				})
			}
			seen[id] = m.ID
		}
	}

	courts := make(map[int]string)
	for _, m := range session.NonTerminalMatches() {
		if other, dup := courts[m.Court]; dup {
			panicInvariant(session, "two active matches on the same court", map[string]interface{}{
				"court": m.Court, "match_a": other, "match_b": m.ID,
			})
		}
		courts[m.Court] = m.ID
	}

	for court := range courts {
		if court < 1 || court > session.NumCourts {
			panicInvariant(session, "match assigned to out-of-range court", map[string]interface{}{"court": court})
		}
	}
}
