// internal/core/waitpriority.go
// Component 4: Wait-Priority Engine. Converts accumulated wait time and
// games_waited into a priority tier and a bounded candidate pool.

package core

import "sort"

// WaitTier classifies how far behind a player's wait is relative to the
// shortest current waiter.
type WaitTier int

const (
	TierNormal WaitTier = iota
	TierSignificant
	TierExtreme
)

// WaitInfo is the per-player wait-priority result for one generator pass.
type WaitInfo struct {
	PlayerID      string
	EffectiveWait float64
	GamesWaited   int
	Tier          WaitTier
}

// WaitPriorityResult is the output of the Wait-Priority Engine.
type WaitPriorityResult struct {
	ShortestWait      float64
	DifferencesMatter bool
	ByID              map[string]WaitInfo
	Candidates        []string // ordered by priority, first-round shuffle if applicable
	FirstRound        bool
}

// ComputeWaitPriority implements spec.md §4.3.
func ComputeWaitPriority(session *Session, now float64, rng *RNG) WaitPriorityResult {
	waiting := session.WaitingPlayers()

	infos := make(map[string]WaitInfo, len(waiting))
	shortest := 0.0
	first := true
	for _, id := range waiting {
		st := session.Stats[id]
		if st == nil {
			st = &PlayerStats{PlayerID: id}
		}
		w := st.EffectiveWait(now)
		if first || w < shortest {
			shortest = w
			first = false
		}
		infos[id] = WaitInfo{PlayerID: id, EffectiveWait: w, GamesWaited: st.GamesWaited}
	}

	for _, id := range waiting {
		info := infos[id]
		gap := info.EffectiveWait - shortest
		switch {
		case gap >= session.Config.Wait.ExtremeGap:
			info.Tier = TierExtreme
		case gap >= session.Config.Wait.SignificantGap:
			info.Tier = TierSignificant
		default:
			info.Tier = TierNormal
		}
		infos[id] = info
	}
	// "Differences matter" is false iff every waiter falls within MinGap of
	// each other AND no SIGNIFICANT/EXTREME exists.
	allWithinMinGap := true
	for _, id := range waiting {
		if infos[id].EffectiveWait-shortest > session.Config.Wait.MinGap {
			allWithinMinGap = false
			break
		}
	}
	hasElevatedTier := false
	for _, id := range waiting {
		if infos[id].Tier != TierNormal {
			hasElevatedTier = true
			break
		}
	}
	differencesMatter := !allWithinMinGap || hasElevatedTier
	if !differencesMatter {
		for id, info := range infos {
			info.Tier = TierNormal
			infos[id] = info
		}
	}

	result := WaitPriorityResult{
		ShortestWait:      shortest,
		DifferencesMatter: differencesMatter,
		ByID:              infos,
	}

	noCompletedMatches := !hasCountedMatch(session)
	if noCompletedMatches {
		result.FirstRound = true
		result.Candidates = rng.ShuffleStrings(waiting)
		return result
	}

	sort.Slice(waiting, func(i, j int) bool {
		a, b := infos[waiting[i]], infos[waiting[j]]
		if a.Tier != b.Tier {
			return a.Tier > b.Tier // EXTREME(2) before SIGNIFICANT(1) before NORMAL(0)
		}
		if a.EffectiveWait != b.EffectiveWait {
			return a.EffectiveWait > b.EffectiveWait
		}
		if a.GamesWaited != b.GamesWaited {
			return a.GamesWaited > b.GamesWaited
		}
		return waiting[i] < waiting[j]
	})

	k := candidatePoolSize(len(session.ActivePlayerIDs()), len(waiting))
	if k < len(waiting) {
		waiting = waiting[:k]
	}
	result.Candidates = waiting
	return result
}

func hasCountedMatch(session *Session) bool {
	for _, m := range session.Matches {
		if m.Status == MatchCompleted || m.Status == MatchForfeited {
			return true
		}
	}
	return false
}

// candidatePoolSize implements: up to max(12, min(16, available/2)) when
// active > 16, else all available.
func candidatePoolSize(activeCount, available int) int {
	if activeCount <= 16 {
		return available
	}
	k := maxInt(12, minInt(16, available/2))
	return minInt(k, available)
}
