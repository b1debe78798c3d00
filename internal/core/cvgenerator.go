// internal/core/cvgenerator.go
// Component 8: CV Generator. Fills empty courts for Competitive Variety
// sessions: picks candidates, enumerates team arrangements, applies the
// Constraint Gate and Scorer.

package core

import (
	"math"
	"sort"
)

// arrangement is one candidate team1/team2 split for a 4- or 2-player combo.
type arrangement struct {
	team1, team2 []string
}

func doublesArrangements(four []string) []arrangement {
	a, b, c, d := four[0], four[1], four[2], four[3]
	return []arrangement{
		{team1: []string{a, b}, team2: []string{c, d}},
		{team1: []string{a, c}, team2: []string{b, d}},
		{team1: []string{a, d}, team2: []string{b, c}},
	}
}

func singlesArrangements(two []string) []arrangement {
	return []arrangement{{team1: []string{two[0]}, team2: []string{two[1]}}}
}

// PopulateEmptyCourtsCompetitiveVariety implements spec.md §4.7. It mutates
// session: appending newly created in-progress matches and updating wait
// timers. Never errors - an unsatisfiable court is simply left empty.
func PopulateEmptyCourtsCompetitiveVariety(session *Session, now float64, rng *RNG) []*Match {
	emptyCourts := findEmptyCourts(session)
	// §9: snapshot before ANY mutation this pass, including locked-team seating.
	allCourtsEmptyAtStart := len(emptyCourts) == session.NumCourts
	if len(emptyCourts) == 0 {
		settleWaitTimers(session, now, nil)
		return nil
	}

	ratings := BuildRatingSnapshot(session)
	history := BuildHistoryIndex(session)
	phase := ComputePhaseState(session)
	wait := ComputeWaitPriority(session, now, rng)

	pool := make(map[string]bool, len(wait.Candidates))
	for _, id := range wait.Candidates {
		pool[id] = true
	}

	created := make([]*Match, 0)
	seated := make(map[string]bool)

	gate := NewConstraintGate(session, history, ratings, phase)
	perMatch := session.SessionType.PlayersPerMatch()

	// Step 3: locked-team priority, doubles only. LockedTeams is a map, whose
	// iteration order is unspecified, so sort it first: which locked pair
	// claims a court first when several compete for limited empty courts
	// must not depend on map enumeration order (spec.md's determinism
	// guarantee).
	if session.SessionType == SessionDoubles {
		for _, pair := range sortedPairKeys(session.LockedTeams) {
			if len(emptyCourts) == 0 {
				break
			}
			if !pool[pair.A] || !pool[pair.B] || seated[pair.A] || seated[pair.B] {
				continue
			}
			court := emptyCourts[0]
			ctx := ScoringContext{Session: session, Ratings: ratings, History: history, Phase: phase, Wait: wait, Gate: gate}
			m := seatLockedPair(session, ctx, pair, availablePool(pool, seated), court, now, rng)
			if m != nil {
				created = append(created, m)
				for _, id := range m.Players() {
					seated[id] = true
				}
				emptyCourts = emptyCourts[1:]
			}
		}
	}

	// Step 4: per-court loop, ascending court number.
	for _, court := range emptyCourts {
		remaining := availablePool(pool, seated)
		if len(remaining) < perMatch {
			continue
		}

		ctx := ScoringContext{Session: session, Ratings: ratings, History: history, Phase: phase, Wait: wait, Gate: gate}
		best, ok := bestArrangement(ctx, remaining, perMatch)

		if !ok {
			ctx.AllowCross = true
			best, ok = bestArrangement(ctx, remaining, perMatch)
		}

		crossBracket := ok && ctx.AllowCross

		if !ok && allCourtsEmptyAtStart {
			relaxedGate := gate.WithRelaxedPOP()
			ctx.Gate = relaxedGate
			ctx.SkipHomogeneous = true
			ctx.AllowCross = true
			best, ok = bestArrangement(ctx, remaining, perMatch)
			crossBracket = ok
		}

		if !ok {
			continue
		}

		m := &Match{
			ID:           NewID(),
			Court:        court,
			Team1:        best.team1,
			Team2:        best.team2,
			Status:       MatchWaiting,
			CreatedAt:    now,
			CrossBracket: crossBracket,
		}
		m.Status = MatchInProgress // no pre-game gating, per lifecycle
		session.Matches = append(session.Matches, m)
		created = append(created, m)
		for _, id := range m.Players() {
			seated[id] = true
		}
	}

	settleWaitTimers(session, now, seated)
	if len(created) > 0 {
		session.bumpVersion()
	}
	return created
}

// availablePool returns the unseated members of pool, sorted: pool and
// seated are both maps, and this slice feeds bestArrangement's enumeration
// order, which decides the winner on any scorer tie (strict ">" in
// bestArrangement keeps the first-enumerated arrangement).
func availablePool(pool map[string]bool, seated map[string]bool) []string {
	out := make([]string, 0, len(pool))
	for id := range pool {
		if !seated[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// sortedPairKeys returns the keys of a PairKey-keyed set in deterministic
// (A, then B) order.
func sortedPairKeys(pairs map[PairKey]bool) []PairKey {
	out := make([]PairKey, 0, len(pairs))
	for pair := range pairs {
		out = append(out, pair)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func findEmptyCourts(session *Session) []int {
	occupied := make(map[int]bool)
	for _, m := range session.NonTerminalMatches() {
		occupied[m.Court] = true
	}
	out := make([]int, 0)
	for c := 1; c <= session.NumCourts; c++ {
		if !occupied[c] {
			out = append(out, c)
		}
	}
	return out
}

// bestArrangement enumerates combinations of `need` players from pool,
// restricted to a reasonable ceiling, and returns the max-scoring legal
// arrangement.
func bestArrangement(ctx ScoringContext, pool []string, need int) (arrangement, bool) {
	var best arrangement
	bestScore := math.Inf(-1)
	found := false

	forEachCombination(pool, need, func(combo []string) {
		var arrangements []arrangement
		if need == 4 {
			arrangements = doublesArrangements(combo)
		} else {
			arrangements = singlesArrangements(combo)
		}
		for _, arr := range arrangements {
			score := ScoreArrangement(ctx, arr.team1, arr.team2)
			if math.IsInf(score, -1) {
				continue
			}
			if !found || score > bestScore {
				best, bestScore, found = arr, score, true
			}
		}
	})

	return best, found
}

// forEachCombination visits every size-k combination of items, in order,
// early-rejecting (by skipping) nothing itself - callers filter via the
// Gate inside the arrangement scoring step. The candidate pool is already
// capped to K by the Wait-Priority Engine, bounding C(K,4) to a small
// constant per spec.md §5.
func forEachCombination(items []string, k int, visit func(combo []string)) {
	n := len(items)
	if k > n {
		return
	}
	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}
	for {
		combo := make([]string, k)
		for i, idx := range indices {
			combo[i] = items[idx]
		}
		visit(combo)

		i := k - 1
		for i >= 0 && indices[i] == i+n-k {
			i--
		}
		if i < 0 {
			return
		}
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}

// seatLockedPair tries to seat a locked partner pair on court, finding the
// best-scoring opponent team from the remaining pool.
func seatLockedPair(session *Session, ctx ScoringContext, pair PairKey, pool []string, court int, now float64, rng *RNG) *Match {
	perMatch := session.SessionType.PlayersPerMatch()
	if perMatch != 4 {
		return nil
	}
	rest := make([]string, 0, len(pool))
	for _, id := range pool {
		if id != pair.A && id != pair.B {
			rest = append(rest, id)
		}
	}
	if len(rest) < 2 {
		return nil
	}

	team1 := []string{pair.A, pair.B}
	bestScore := math.Inf(-1)
	var bestTeam2 []string

	forEachCombination(rest, 2, func(combo []string) {
		score := ScoreArrangement(ctx, team1, combo)
		if math.IsInf(score, -1) {
			return
		}
		if bestTeam2 == nil || score > bestScore {
			bestTeam2 = combo
			bestScore = score
		}
	})

	if bestTeam2 == nil {
		return nil
	}

	m := &Match{
		ID:        NewID(),
		Court:     court,
		Team1:     team1,
		Team2:     bestTeam2,
		Status:    MatchInProgress,
		CreatedAt: now,
	}
	session.Matches = append(session.Matches, m)
	return m
}

// settleWaitTimers clears timers for newly-seated players (accumulating
// elapsed wait) and starts timers for active players now waiting who don't
// already have one running. `seated` may be nil to mean "no one newly
// seated this pass".
func settleWaitTimers(session *Session, now float64, seated map[string]bool) {
	playing := session.PlayingPlayers()
	for id, active := range session.ActiveIDs {
		if !active {
			continue
		}
		st := session.Stats[id]
		if st == nil {
			continue
		}
		if playing[id] {
			if seated != nil && seated[id] && st.WaitStart != nil {
				st.TotalWaitTime += now - *st.WaitStart
				st.WaitStart = nil
			}
			continue
		}
		if st.WaitStart == nil {
			t := now
			st.WaitStart = &t
		}
	}
}
