// internal/core/history.go
// Component 3: History Index. Derived from the match list; pure, rebuilt on
// demand. Counted matches are those that actually occurred (completed or
// forfeited) per the forfeit-recency decision recorded in DESIGN.md.

package core

// Role distinguishes the partner vs opponent relation for pair lookups.
type Role int

const (
	RolePartner Role = iota
	RoleOpponent
)

// HistoryIndex answers partner/opponent co-occurrence questions over the
// subset of a session's matches that "counted" (completed or forfeited).
type HistoryIndex struct {
	Counted         []*Match
	PersonalHistory map[string][]int // playerID -> indices into Counted, in order
}

// BuildHistoryIndex derives the index from session.Matches. O(matches).
func BuildHistoryIndex(session *Session) *HistoryIndex {
	idx := &HistoryIndex{
		Counted:         make([]*Match, 0, len(session.Matches)),
		PersonalHistory: make(map[string][]int),
	}
	for _, m := range session.Matches {
		if m.Status != MatchCompleted && m.Status != MatchForfeited {
			continue
		}
		globalIdx := len(idx.Counted)
		idx.Counted = append(idx.Counted, m)
		for _, id := range m.Players() {
			idx.PersonalHistory[id] = append(idx.PersonalHistory[id], globalIdx)
		}
	}
	return idx
}

func isPartner(m *Match, a, b string) bool {
	return (contains(m.Team1, a) && contains(m.Team1, b)) || (contains(m.Team2, a) && contains(m.Team2, b))
}

func isOpponent(m *Match, a, b string) bool {
	return (contains(m.Team1, a) && contains(m.Team2, b)) || (contains(m.Team2, a) && contains(m.Team1, b))
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func relationHolds(m *Match, a, b string, role Role) bool {
	if role == RolePartner {
		return isPartner(m, a, b)
	}
	return isOpponent(m, a, b)
}

// PartnerCount returns the number of counted matches in which a and b
// shared a team.
func (h *HistoryIndex) PartnerCount(a, b string) int {
	return h.relationCount(a, b, RolePartner)
}

// OpponentCount returns the number of counted matches in which a and b
// played against each other.
func (h *HistoryIndex) OpponentCount(a, b string) int {
	return h.relationCount(a, b, RoleOpponent)
}

func (h *HistoryIndex) relationCount(a, b string, role Role) int {
	count := 0
	for _, m := range h.Counted {
		if relationHolds(m, a, b, role) {
			count++
		}
	}
	return count
}

// LastRelationIndex returns the global (Counted-slice) index of the most
// recent match in which a and b held the given relation, or -1.
func (h *HistoryIndex) LastRelationIndex(a, b string, role Role) int {
	for i := len(h.Counted) - 1; i >= 0; i-- {
		if relationHolds(h.Counted[i], a, b, role) {
			return i
		}
	}
	return -1
}

func (h *HistoryIndex) LastPartnerIndex(a, b string) int  { return h.LastRelationIndex(a, b, RolePartner) }
func (h *HistoryIndex) LastOpponentIndex(a, b string) int { return h.LastRelationIndex(a, b, RoleOpponent) }

// InterveningSince returns the number of games `player` has played strictly
// after the counted match at globalIdx, using their personal history.
func (h *HistoryIndex) InterveningSince(player string, globalIdx int) int {
	personal := h.PersonalHistory[player]
	for k, gi := range personal {
		if gi == globalIdx {
			return len(personal) - k - 1
		}
	}
	return len(personal)
}

// MostRecentRelationFor finds, within `player`'s own personal history, the
// most recent match against `other` in the forbidden relation, and returns
// the number of intervening games `player` has had since. ok is false if
// `other` never appeared in that relation against `player`.
func (h *HistoryIndex) MostRecentRelationFor(player, other string, role Role) (intervening int, ok bool) {
	personal := h.PersonalHistory[player]
	for k := len(personal) - 1; k >= 0; k-- {
		m := h.Counted[personal[k]]
		if relationHolds(m, player, other, role) {
			return len(personal) - k - 1, true
		}
	}
	return 0, false
}
