// internal/core/constraintgate.go
// Component 5: Constraint Gate. The single predicate deciding whether two
// players may share a team or face off right now.

package core

import "math"

// ConstraintGate evaluates pairwise play legality against the locked/banned
// sets, roaming window, and recency rules. Immutable snapshot per pass.
type ConstraintGate struct {
	session     *Session
	history     *HistoryIndex
	ratings     RatingSnapshot
	activeCount int
	phase       PhaseState

	// relaxPOP disables the Partner-Opponent-Partner rule (§4.4 step 6);
	// used only by the CV generator's ultra-lenient fallback (§4.7 step e).
	relaxPOP bool
}

// NewConstraintGate builds a gate from one generator pass's computed state.
func NewConstraintGate(session *Session, history *HistoryIndex, ratings RatingSnapshot, phase PhaseState) *ConstraintGate {
	return &ConstraintGate{
		session:     session,
		history:     history,
		ratings:     ratings,
		activeCount: len(session.ActivePlayerIDs()),
		phase:       phase,
	}
}

// WithRelaxedPOP returns a copy of the gate with the POP rule disabled.
func (g ConstraintGate) WithRelaxedPOP() *ConstraintGate {
	g.relaxPOP = true
	return &g
}

// CanPlay implements spec.md §4.4. allowCrossBracket relaxes the roaming
// window (the generator's first fallback).
func (g *ConstraintGate) CanPlay(p1, p2 string, role Role, allowCrossBracket bool) bool {
	// 1. Locked team.
	if g.session.LockedTeams[NewPairKey(p1, p2)] {
		return role == RolePartner
	}

	// 2. Banned pair.
	if role == RolePartner && g.session.BannedPairs[NewPairKey(p1, p2)] {
		return false
	}

	// 3. Roaming range.
	if role == RolePartner || role == RoleOpponent {
		if g.activeCount >= g.session.Config.Roaming.ActiveFrom &&
			g.session.Mode == ModeCompetitiveVariety &&
			!allowCrossBracket &&
			!g.ratings.Provisional(p1) && !g.ratings.Provisional(p2) {
			w := int(math.Floor(float64(g.activeCount) * g.session.Config.Roaming.Window))
			r1, r2 := g.ratings.Rank(p1), g.ratings.Rank(p2)
			if abs(r1-r2) > w {
				return false
			}
		}
	}

	// 4. Global recency.
	requiredGap := g.requiredGap(role)
	scanWindow := requiredGap + 1
	if g.scanRecentViolates(p1, p2, role, scanWindow) {
		return false
	}

	// 5. Per-player gap.
	if !g.perPlayerGapOK(p1, p2, role, requiredGap) {
		return false
	}

	// 6. Partner-Opponent-Partner pattern.
	if role == RolePartner && !g.relaxPOP && g.phase.EffectiveBalanceWeight >= 3.0 {
		if !g.popPatternOK(p1, p2) {
			return false
		}
	}

	return true
}

func (g *ConstraintGate) requiredGap(role Role) int {
	var gap int
	if role == RolePartner {
		gap = g.session.Config.Repetition.PartnerGapRequired
	} else {
		gap = g.session.Config.Repetition.OpponentGapRequired
	}
	if g.activeCount < g.session.Config.Repetition.SmallSessionThreshold {
		gap = 1
	}
	if gap < 1 {
		gap = 1
	}
	return gap
}

// scanRecentViolates scans the last `window` counted matches for the
// forbidden relation between p1 and p2.
func (g *ConstraintGate) scanRecentViolates(p1, p2 string, role Role, window int) bool {
	n := len(g.history.Counted)
	start := maxInt(0, n-window)
	for i := n - 1; i >= start; i-- {
		if relationHolds(g.history.Counted[i], p1, p2, role) {
			return true
		}
	}
	return false
}

// perPlayerGapOK checks each player's own personal-history intervening count
// against the required gap, independently.
func (g *ConstraintGate) perPlayerGapOK(p1, p2 string, role Role, requiredGap int) bool {
	if intervening, ok := g.history.MostRecentRelationFor(p1, p2, role); ok && intervening < requiredGap {
		return false
	}
	if intervening, ok := g.history.MostRecentRelationFor(p2, p1, role); ok && intervening < requiredGap {
		return false
	}
	return true
}

// popPatternOK implements the "both-sided gap" rule: if p1 and p2 were
// recently opponents, both of them must have played an intervening game
// before becoming partners now.
func (g *ConstraintGate) popPatternOK(p1, p2 string) bool {
	lastOpp := g.history.LastOpponentIndex(p1, p2)
	if lastOpp < 0 {
		return true
	}
	i1 := g.history.InterveningSince(p1, lastOpp)
	i2 := g.history.InterveningSince(p2, lastOpp)
	return minInt(i1, i2) > 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
