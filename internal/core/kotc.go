// internal/core/kotc.go
// Component 9: King-of-the-Court Controller. Synchronized-round state
// machine: initial seeding, per-round movement, waitlist rotation, and
// mandatory team splitting.

package core

import "sort"

// InitializeKingOfTheCourt performs the first-call seeding (§4.9.1). No-op
// (returns false) if the round is already initialized.
func InitializeKingOfTheCourt(session *Session, now float64, rng *RNG) bool {
	if session.KotC != nil && session.KotC.RoundNumber > 0 {
		return false
	}

	perMatch := session.SessionType.PlayersPerMatch()
	capacity := session.NumCourts * perMatch

	ordering := session.Config.KotC.CourtOrdering
	if len(ordering) != session.NumCourts {
		ordering = make([]int, session.NumCourts)
		for i := range ordering {
			ordering[i] = i + 1
		}
	}

	state := &KotCState{
		RoundNumber:     0,
		PlayerPositions: make(map[string]int),
		WaitCounts:      make(map[string]int),
		CourtOrdering:   ordering,
		SeedingOption:   session.Config.KotC.SeedingOption,
		FirstByes:       copyBoolSet(session.Config.KotC.FirstByes),
	}
	session.KotC = state

	active := session.ActivePlayerIDs()
	for _, id := range active {
		state.WaitCounts[id] = 0
	}

	byes := make([]string, 0)
	rest := make([]string, 0, len(active))
	for _, id := range active {
		if state.FirstByes[id] {
			byes = append(byes, id)
		} else {
			rest = append(rest, id)
		}
	}
	sort.Strings(byes)
	sort.Strings(rest)

	var onCourt []string
	var waitlist []string

	switch state.SeedingOption {
	case SeedingHighToLow, SeedingLowToHigh:
		ranked := RankActivePlayers(session)
		ordered := make([]string, len(ranked))
		for i, r := range ranked {
			if state.SeedingOption == SeedingHighToLow {
				ordered[i] = r.PlayerID
			} else {
				ordered[len(ranked)-1-i] = r.PlayerID
			}
		}
		ordered = withoutAll(ordered, byes)
		onCourt, waitlist = splitByCapacity(ordered, capacity-minInt(len(byes), capacity))
	default: // random
		shuffled := rng.ShuffleStrings(rest)
		onCourt, waitlist = splitByCapacity(shuffled, capacity-minInt(len(byes), capacity))
	}

	waitlist = append(append([]string{}, byes...), waitlist...)
	if len(onCourt) > capacity {
		waitlist = append(waitlist, onCourt[capacity:]...)
		onCourt = onCourt[:capacity]
	}

	assignToCourts(session, state, onCourt, ordering, now, rng, nil)

	for _, id := range waitlist {
		state.WaitCounts[id]++
	}

	state.RoundNumber = 1
	session.bumpVersion()
	return true
}

func copyBoolSet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func withoutAll(items []string, exclude []string) []string {
	ex := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		ex[e] = true
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !ex[it] {
			out = append(out, it)
		}
	}
	return out
}

func splitByCapacity(items []string, capacity int) (onCourt, waitlist []string) {
	if capacity < 0 {
		capacity = 0
	}
	if capacity >= len(items) {
		return items, nil
	}
	return items[:capacity], items[capacity:]
}

// assignToCourts distributes onCourt players evenly across courts (in
// ordering order) and creates one randomized-teams match per court.
// avoid(a,b) reports whether a and b must not be teammates this round.
func assignToCourts(session *Session, state *KotCState, onCourt []string, ordering []int, now float64, rng *RNG, avoid func(a, b string) bool) {
	perMatch := session.SessionType.PlayersPerMatch()
	for i, court := range ordering {
		start := i * perMatch
		end := start + perMatch
		if start >= len(onCourt) {
			break
		}
		if end > len(onCourt) {
			end = len(onCourt)
		}
		courtPlayers := onCourt[start:end]
		for _, id := range courtPlayers {
			state.PlayerPositions[id] = court
		}
		if len(courtPlayers) < perMatch {
			continue
		}
		team1, team2 := formTeams(session, courtPlayers, avoid, rng)
		m := &Match{
			ID:        NewID(),
			Court:     court,
			Team1:     team1,
			Team2:     team2,
			Status:    MatchInProgress,
			CreatedAt: now,
			KotCRound: state.RoundNumber + 1,
		}
		session.Matches = append(session.Matches, m)
	}
}

// formTeams partitions playersPerMatch players into two teams, honoring
// locked teams and banned pairs as hard constraints and, when avoid is
// non-nil, minimizing teammate pairs that must be split (§4.9.2 step 4).
func formTeams(session *Session, players []string, avoid func(a, b string) bool, rng *RNG) ([]string, []string) {
	if len(players) == 2 {
		return []string{players[0]}, []string{players[1]}
	}

	type split struct{ t1, t2 []string }
	a, b, c, d := players[0], players[1], players[2], players[3]
	candidates := []split{
		{[]string{a, b}, []string{c, d}},
		{[]string{a, c}, []string{b, d}},
		{[]string{a, d}, []string{b, c}},
	}

	legal := make([]split, 0, 3)
	for _, s := range candidates {
		if session.BannedPairs[NewPairKey(s.t1[0], s.t1[1])] || session.BannedPairs[NewPairKey(s.t2[0], s.t2[1])] {
			continue
		}
		if !lockedTeamsRespected(session, s.t1, s.t2) {
			continue
		}
		legal = append(legal, s)
	}
	if len(legal) == 0 {
		legal = candidates // bans/locks could not all be satisfied; fall back
	}

	if avoid == nil {
		chosen := legal[rng.Intn(len(legal))]
		return chosen.t1, chosen.t2
	}

	bestViolations := -1
	best := make([]split, 0, 3)
	for _, s := range legal {
		v := 0
		if avoid(s.t1[0], s.t1[1]) {
			v++
		}
		if avoid(s.t2[0], s.t2[1]) {
			v++
		}
		if bestViolations == -1 || v < bestViolations {
			bestViolations = v
			best = []split{s}
		} else if v == bestViolations {
			best = append(best, s)
		}
	}
	chosen := best[rng.Intn(len(best))]
	return chosen.t1, chosen.t2
}

func lockedTeamsRespected(session *Session, t1, t2 []string) bool {
	for pair := range session.LockedTeams {
		onT1 := contains(t1, pair.A) || contains(t1, pair.B)
		onT2 := contains(t2, pair.A) || contains(t2, pair.B)
		if onT1 && onT2 {
			// both in play but split across teams - only a violation if both
			// are actually among these 4 players.
			if contains(t1, pair.A) && contains(t2, pair.B) {
				return false
			}
			if contains(t1, pair.B) && contains(t2, pair.A) {
				return false
			}
		}
	}
	return true
}

// courtTier classifies a court index (0=Kings,len-1=Bottom) for sit-out
// and return-slot preference ordering: middle(0) < bottom(1) < kings(2).
func courtTier(orderingIndex, n int) int {
	switch orderingIndex {
	case n - 1:
		return 1 // bottom
	case 0:
		return 2 // kings
	default:
		return 0 // middle
	}
}

// AdvanceRoundKingOfTheCourt implements spec.md §4.9.2. No-op (returns
// false) unless every court's match is terminal.
func AdvanceRoundKingOfTheCourt(session *Session, now float64, rng *RNG) bool {
	state := session.KotC
	if state == nil || state.RoundNumber == 0 {
		return false
	}

	current := session.NonTerminalMatches()
	if len(current) > 0 {
		return false
	}

	lastRoundMatches := make([]*Match, 0)
	for _, m := range session.Matches {
		if m.KotCRound == state.RoundNumber && (m.Status == MatchCompleted || m.Status == MatchForfeited) {
			lastRoundMatches = append(lastRoundMatches, m)
		}
	}
	if len(lastRoundMatches) == 0 {
		return false
	}

	ordering := state.CourtOrdering
	n := len(ordering)
	courtIndexByNumber := make(map[int]int, n)
	for i, c := range ordering {
		courtIndexByNumber[c] = i
	}

	priorTeammate := make(map[string]string)
	newPositions := make(map[string]int)

	for _, m := range lastRoundMatches {
		winners, losers := m.Team1, m.Team2
		forfeited := m.Status == MatchForfeited
		if !forfeited && m.Score != nil && m.Score.Team2Points > m.Score.Team1Points {
			winners, losers = m.Team2, m.Team1
		}

		for _, id := range m.Team1 {
			if len(m.Team1) == 2 {
				for _, other := range m.Team1 {
					if other != id {
						priorTeammate[id] = other
					}
				}
			}
		}
		for _, id := range m.Team2 {
			if len(m.Team2) == 2 {
				for _, other := range m.Team2 {
					if other != id {
						priorTeammate[id] = other
					}
				}
			}
		}

		idx := courtIndexByNumber[m.Court]
		if forfeited {
			target := minInt(n-1, idx+1)
			for _, id := range append(append([]string{}, winners...), losers...) {
				newPositions[id] = ordering[target]
			}
			continue
		}
		winTarget := maxInt(0, idx-1)
		loseTarget := minInt(n-1, idx+1)
		for _, id := range winners {
			newPositions[id] = ordering[winTarget]
		}
		for _, id := range losers {
			newPositions[id] = ordering[loseTarget]
		}
	}

	// courtPrev: post-movement on-court players, grouped by their new court.
	type posPlayer struct {
		id   string
		tier int
	}
	courtPrev := make([]posPlayer, 0, len(newPositions))
	for id, court := range newPositions {
		courtPrev = append(courtPrev, posPlayer{id: id, tier: courtTier(courtIndexByNumber[court], n)})
	}

	active := session.ActivePlayerIDs()
	activeSet := make(map[string]bool, len(active))
	for _, id := range active {
		activeSet[id] = true
	}

	nonCourtPrev := make([]string, 0)
	for _, id := range active {
		if _, onCourt := newPositions[id]; !onCourt {
			nonCourtPrev = append(nonCourtPrev, id)
		}
	}
	sort.Strings(nonCourtPrev)

	// Drop anyone no longer active from courtPrev (removal mid-cycle).
	filtered := courtPrev[:0]
	for _, p := range courtPrev {
		if activeSet[p.id] {
			filtered = append(filtered, p)
		}
	}
	courtPrev = filtered

	perMatch := session.SessionType.PlayersPerMatch()
	capacity := session.NumCourts * perMatch

	entering := append([]string{}, nonCourtPrev...)
	remainingSlots := capacity - len(entering)

	var stay []string
	var sitOut []posPlayer

	if remainingSlots < 0 {
		// More returning waiters than slots: trim lowest-wait-count entering
		// players back onto the waitlist.
		sort.Slice(entering, func(i, j int) bool {
			return state.WaitCounts[entering[i]] > state.WaitCounts[entering[j]]
		})
		keep := capacity
		if keep < 0 {
			keep = 0
		}
		overflow := entering[keep:]
		entering = entering[:keep]
		for _, id := range overflow {
			state.WaitCounts[id]++
		}
		remainingSlots = capacity - len(entering)
	}

	sort.Slice(courtPrev, func(i, j int) bool {
		wi, wj := state.WaitCounts[courtPrev[i].id], state.WaitCounts[courtPrev[j].id]
		if wi != wj {
			return wi < wj
		}
		if courtPrev[i].tier != courtPrev[j].tier {
			return courtPrev[i].tier < courtPrev[j].tier
		}
		return courtPrev[i].id < courtPrev[j].id
	})

	sitOutCount := maxInt(0, len(courtPrev)-remainingSlots)
	sitOut = courtPrev[:sitOutCount]
	stayPlayers := courtPrev[sitOutCount:]
	stay = make([]string, len(stayPlayers))
	for i, p := range stayPlayers {
		stay[i] = p.id
	}

	for _, p := range sitOut {
		state.WaitCounts[p.id]++
	}

	// Vacated slots, preferring middle-tier courts for returning waiters.
	vacated := make([]int, 0, len(sitOut))
	for _, p := range sitOut {
		vacated = append(vacated, newPositions[p.id])
	}
	sort.Slice(vacated, func(i, j int) bool {
		return courtTier(courtIndexByNumber[vacated[i]], n) < courtTier(courtIndexByNumber[vacated[j]], n)
	})

	shuffledEntering := rng.ShuffleStrings(entering)
	finalPositions := make(map[string]int, capacity)
	for _, id := range stay {
		finalPositions[id] = newPositions[id]
	}
	for i, id := range shuffledEntering {
		if i < len(vacated) {
			finalPositions[id] = vacated[i]
		}
	}

	state.PlayerPositions = finalPositions

	byCourt := make(map[int][]string)
	for id, court := range finalPositions {
		byCourt[court] = append(byCourt[court], id)
	}

	avoid := func(a, b string) bool {
		return priorTeammate[a] == b || priorTeammate[b] == a
	}

	state.RoundNumber++
	for _, court := range ordering {
		players := byCourt[court]
		if len(players) != perMatch {
			continue
		}
		sort.Strings(players)
		team1, team2 := formTeams(session, players, avoid, rng)
		m := &Match{
			ID:        NewID(),
			Court:     court,
			Team1:     team1,
			Team2:     team2,
			Status:    MatchInProgress,
			CreatedAt: now,
			KotCRound: state.RoundNumber,
		}
		session.Matches = append(session.Matches, m)
	}

	session.bumpVersion()
	return true
}
