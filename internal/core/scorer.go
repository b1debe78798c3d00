// internal/core/scorer.go
// Component 7: Match Scorer. Scores one candidate team arrangement against
// balance, variety, wait, and phase-weighted bonuses/penalties.

package core

import "math"

// SkillTier buckets a rating relative to BaseRating.
type SkillTier int

const (
	TierWeak SkillTier = iota
	TierAverage
	TierStrong
	TierElite
)

func skillTier(rating float64, cfg RatingConfig) SkillTier {
	switch {
	case rating >= cfg.BaseRating+200:
		return TierElite
	case rating >= cfg.BaseRating+50:
		return TierStrong
	case rating >= cfg.BaseRating-50:
		return TierAverage
	default:
		return TierWeak
	}
}

// Wait-tier bonus constants, chosen to dominate tiebreakers between
// otherwise-similar arrangements per §4.6 term 7.
const (
	waitBonusNormal      = 10.0
	waitBonusSignificant = 100.0
	waitBonusExtreme     = 1000.0
)

func waitBonusFor(tier WaitTier) float64 {
	switch tier {
	case TierExtreme:
		return waitBonusExtreme
	case TierSignificant:
		return waitBonusSignificant
	default:
		return waitBonusNormal
	}
}

// ScoringContext bundles the per-pass inputs the Scorer needs.
type ScoringContext struct {
	Session         *Session
	Ratings         RatingSnapshot
	History         *HistoryIndex
	Phase           PhaseState
	Wait            WaitPriorityResult
	Gate            *ConstraintGate
	AllowCross      bool
	SkipHomogeneous bool // ultra-lenient fallback, §4.7 step e
}

// ScoreArrangement implements spec.md §4.6. Returns math.Inf(-1) if the
// arrangement fails the Constraint Gate or the hard balance-threshold filter.
func ScoreArrangement(ctx ScoringContext, team1, team2 []string) float64 {
	for _, pair := range partnerPairs(team1) {
		if !ctx.Gate.CanPlay(pair[0], pair[1], RolePartner, ctx.AllowCross) {
			return math.Inf(-1)
		}
	}
	for _, pair := range partnerPairs(team2) {
		if !ctx.Gate.CanPlay(pair[0], pair[1], RolePartner, ctx.AllowCross) {
			return math.Inf(-1)
		}
	}
	for _, a := range team1 {
		for _, b := range team2 {
			if !ctx.Gate.CanPlay(a, b, RoleOpponent, ctx.AllowCross) {
				return math.Inf(-1)
			}
		}
	}

	avg1 := avgRating(ctx.Ratings, team1)
	avg2 := avgRating(ctx.Ratings, team2)
	diff := math.Abs(avg1 - avg2)

	if !math.IsInf(ctx.Phase.BalanceThreshold, 1) && diff > ctx.Phase.BalanceThreshold {
		return math.Inf(-1)
	}

	score := 0.0

	// 1. Balance term.
	score -= ctx.Phase.EffectiveBalanceWeight * diff

	// 2. Perfect-balance bonus.
	if diff <= 50 {
		closeness := (50 - diff) / 50 // 1.0 at diff=0, 0.0 at diff=50
		bonus := 50 + closeness*(250-50)
		score += bonus * ctx.Phase.EffectiveBalanceWeight / 5.0
	}

	midOrLate := ctx.Phase.Phase == PhaseMid || ctx.Phase.Phase == PhaseLate

	if midOrLate {
		t1a, t1b := teamTiers(ctx.Ratings, ctx.Session.Config.Rating, team1)
		t2a, t2b := teamTiers(ctx.Ratings, ctx.Session.Config.Rating, team2)

		// 3. Homogeneous-partnership bonus.
		if !ctx.SkipHomogeneous {
			if len(team1) == 2 && t1a == t1b {
				score += 75 * ctx.Phase.EffectiveBalanceWeight / 5.0
			}
			if len(team2) == 2 && t2a == t2b {
				score += 75 * ctx.Phase.EffectiveBalanceWeight / 5.0
			}
		}

		// 4. Mismatch penalty.
		if len(team1) == 2 && isEliteWeakMismatch(t1a, t1b) {
			score -= mismatchPenalty(ctx.Phase.EffectiveBalanceWeight)
		}
		if len(team2) == 2 && isEliteWeakMismatch(t2a, t2b) {
			score -= mismatchPenalty(ctx.Phase.EffectiveBalanceWeight)
		}

		// 5. Skill-tier matchup bonus.
		hi1 := higherTier(t1a, t1b)
		hi2 := higherTier(t2a, t2b)
		if hi1 == hi2 {
			score += tierMatchupBonus(ctx.Phase.EffectiveBalanceWeight)
		}
	}

	// 6. Variety term.
	partnerReps := 0
	for _, pair := range partnerPairs(team1) {
		partnerReps += ctx.History.PartnerCount(pair[0], pair[1])
	}
	for _, pair := range partnerPairs(team2) {
		partnerReps += ctx.History.PartnerCount(pair[0], pair[1])
	}
	opponentReps := 0
	for _, a := range team1 {
		for _, b := range team2 {
			opponentReps += ctx.History.OpponentCount(a, b)
		}
	}
	score -= ctx.Phase.VarietyWeight * (50*float64(partnerReps) + 30*float64(opponentReps))

	// 7. Wait bonus.
	for _, id := range append(append([]string{}, team1...), team2...) {
		if info, ok := ctx.Wait.ByID[id]; ok {
			score += waitBonusFor(info.Tier)
		}
	}

	return score
}

func mismatchPenalty(balanceWeight float64) float64 {
	return lerp(clamp(balanceWeight, 1, 5), 1, 5, 50, 100) * balanceWeight / 5.0
}

func tierMatchupBonus(balanceWeight float64) float64 {
	return lerp(clamp(balanceWeight, 1, 5), 1, 5, 40, 75) * balanceWeight / 5.0
}

func isEliteWeakMismatch(a, b SkillTier) bool {
	return (a == TierElite && b == TierWeak) || (a == TierWeak && b == TierElite)
}

func higherTier(a, b SkillTier) SkillTier {
	if a > b {
		return a
	}
	return b
}

func teamTiers(ratings RatingSnapshot, cfg RatingConfig, team []string) (SkillTier, SkillTier) {
	a := skillTier(ratings.Rating(team[0]), cfg)
	if len(team) == 1 {
		return a, a
	}
	b := skillTier(ratings.Rating(team[1]), cfg)
	return a, b
}

func avgRating(ratings RatingSnapshot, team []string) float64 {
	sum := 0.0
	for _, id := range team {
		sum += ratings.Rating(id)
	}
	return sum / float64(len(team))
}

// partnerPairs returns the within-team pairs requiring a partner check
// (empty for singles teams of size 1).
func partnerPairs(team []string) [][2]string {
	if len(team) < 2 {
		return nil
	}
	out := make([][2]string, 0, len(team)*(len(team)-1)/2)
	for i := 0; i < len(team); i++ {
		for j := i + 1; j < len(team); j++ {
			out = append(out, [2]string{team[i], team[j]})
		}
	}
	return out
}
