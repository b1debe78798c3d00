// internal/core/deepcopy.go
// Session.DeepCopy, used exclusively by the Outcome-Dependency Analyzer,
// which must never let a hypothetical trial mutate the real session.

package core

// DeepCopy returns a fully independent copy of the session: no map, slice,
// or pointer in the result aliases anything in the receiver.
func (s *Session) DeepCopy() *Session {
	out := &Session{
		ID:          s.ID,
		Mode:        s.Mode,
		SessionType: s.SessionType,
		NumCourts:   s.NumCourts,
		Config:      s.Config,
		AdaptiveDisabled: s.AdaptiveDisabled,
		version:     s.version,
	}

	out.Config.KotC.CourtOrdering = append([]int(nil), s.Config.KotC.CourtOrdering...)
	out.Config.KotC.FirstByes = copyBoolSet(s.Config.KotC.FirstByes)

	out.Players = make(map[string]*Player, len(s.Players))
	for id, p := range s.Players {
		cp := *p
		if p.SeedRating != nil {
			v := *p.SeedRating
			cp.SeedRating = &v
		}
		out.Players[id] = &cp
	}

	out.ActiveIDs = make(map[string]bool, len(s.ActiveIDs))
	for id, v := range s.ActiveIDs {
		out.ActiveIDs[id] = v
	}

	out.Stats = make(map[string]*PlayerStats, len(s.Stats))
	for id, st := range s.Stats {
		cp := *st
		if st.WaitStart != nil {
			v := *st.WaitStart
			cp.WaitStart = &v
		}
		out.Stats[id] = &cp
	}

	out.Matches = make([]*Match, len(s.Matches))
	for i, m := range s.Matches {
		cp := *m
		cp.Team1 = append([]string{}, m.Team1...)
		cp.Team2 = append([]string{}, m.Team2...)
		if m.Score != nil {
			sc := *m.Score
			cp.Score = &sc
		}
		out.Matches[i] = &cp
	}

	out.BannedPairs = make(map[PairKey]bool, len(s.BannedPairs))
	for k, v := range s.BannedPairs {
		out.BannedPairs[k] = v
	}
	out.LockedTeams = make(map[PairKey]bool, len(s.LockedTeams))
	for k, v := range s.LockedTeams {
		out.LockedTeams[k] = v
	}

	if s.ManualBalanceWeight != nil {
		v := *s.ManualBalanceWeight
		out.ManualBalanceWeight = &v
	}

	if s.KotC != nil {
		k := &KotCState{
			RoundNumber:   s.KotC.RoundNumber,
			SeedingOption: s.KotC.SeedingOption,
		}
		k.PlayerPositions = make(map[string]int, len(s.KotC.PlayerPositions))
		for id, v := range s.KotC.PlayerPositions {
			k.PlayerPositions[id] = v
		}
		k.WaitCounts = make(map[string]int, len(s.KotC.WaitCounts))
		for id, v := range s.KotC.WaitCounts {
			k.WaitCounts[id] = v
		}
		k.CourtOrdering = append([]int{}, s.KotC.CourtOrdering...)
		k.FirstByes = make(map[string]bool, len(s.KotC.FirstByes))
		for id, v := range s.KotC.FirstByes {
			k.FirstByes[id] = v
		}
		out.KotC = k
	}

	return out
}
