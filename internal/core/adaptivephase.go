// internal/core/adaptivephase.go
// Component 6: Adaptive-Phase Controller. Computes the current session
// phase, effective variety/balance weights, and the balance threshold.

package core

import "math"

// Phase is the coarse session-maturity bucket driving balance/variety mix.
type Phase string

const (
	PhaseEarly Phase = "early"
	PhaseMid   Phase = "mid"
	PhaseLate  Phase = "late"
)

// PhaseState is the output of the controller for one generator pass.
type PhaseState struct {
	Phase                   Phase
	EffectiveBalanceWeight  float64
	BalanceThreshold        float64 // math.Inf(1) when inactive
	VarietyWeight           float64
}

// ComputePhaseState implements spec.md §4.5.
func ComputePhaseState(session *Session) PhaseState {
	cfg := session.Config.Adaptive
	active := session.ActivePlayerIDs()

	games := 0
	for _, id := range active {
		if st := session.Stats[id]; st != nil {
			games += st.GamesPlayed
		}
	}
	avg := float64(games) / float64(maxInt(1, len(active)))

	var phase Phase
	switch {
	case avg < cfg.MidAvgGames || session.AdaptiveDisabled:
		phase = PhaseEarly
	case avg < cfg.LateAvgGames:
		phase = PhaseMid
	default:
		phase = PhaseLate
	}

	autoBW := cfg.BalanceWeightEarly
	switch phase {
	case PhaseMid:
		autoBW = cfg.BalanceWeightMid
	case PhaseLate:
		autoBW = cfg.BalanceWeightLate
	}

	effectiveBW := autoBW
	if session.ManualBalanceWeight != nil {
		effectiveBW = *session.ManualBalanceWeight
	}
	if session.AdaptiveDisabled {
		effectiveBW = cfg.BalanceWeightEarly
	}

	threshold := math.Inf(1)
	if !session.AdaptiveDisabled {
		switch phase {
		case PhaseMid:
			threshold = cfg.BalanceThresholdMid
		case PhaseLate:
			threshold = cfg.BalanceThresholdLate
		}
	}

	return PhaseState{
		Phase:                  phase,
		EffectiveBalanceWeight: effectiveBW,
		BalanceThreshold:       threshold,
		VarietyWeight:          varietyWeightFor(effectiveBW),
	}
}

// varietyWeightFor piecewise-linearly interpolates the anchors
// (1.0 -> 3.0), (3.0 -> 2.0), (5.0 -> 1.0), clamped outside [1,5].
func varietyWeightFor(balanceWeight float64) float64 {
	switch {
	case balanceWeight <= 1.0:
		return 3.0
	case balanceWeight <= 3.0:
		return lerp(balanceWeight, 1.0, 3.0, 3.0, 2.0)
	case balanceWeight <= 5.0:
		return lerp(balanceWeight, 3.0, 5.0, 2.0, 1.0)
	default:
		return 1.0
	}
}

func lerp(x, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}
