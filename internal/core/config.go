// internal/core/config.go
// Configuration sub-records. Defaults are values, not code, per §9.

package core

// RatingConfig tunes the Rating Engine.
type RatingConfig struct {
	BaseRating       float64 `json:"base_rating" bson:"base_rating"`
	MinRating        float64 `json:"min_rating" bson:"min_rating"`
	MaxRating        float64 `json:"max_rating" bson:"max_rating"`
	ProvisionalGames int     `json:"provisional_games" bson:"provisional_games"`
}

// RepetitionConfig tunes CV hard repetition gaps.
type RepetitionConfig struct {
	PartnerGapRequired     int `json:"partner_gap_required" bson:"partner_gap_required"`
	OpponentGapRequired    int `json:"opponent_gap_required" bson:"opponent_gap_required"`
	SmallSessionThreshold  int `json:"small_session_threshold" bson:"small_session_threshold"`
}

// RoamingConfig tunes the CV roaming-window constraint.
type RoamingConfig struct {
	ActiveFrom int     `json:"roaming_active_from" bson:"roaming_active_from"`
	Window     float64 `json:"roaming_window" bson:"roaming_window"`
}

// WaitConfig tunes the Wait-Priority Engine's tier gaps, in seconds.
type WaitConfig struct {
	MinGap         float64 `json:"min_gap" bson:"min_gap"`
	SignificantGap float64 `json:"significant_gap" bson:"significant_gap"`
	ExtremeGap     float64 `json:"extreme_gap" bson:"extreme_gap"`
}

// AdaptiveConfig tunes the Adaptive-Phase Controller.
type AdaptiveConfig struct {
	MidAvgGames          float64 `json:"mid_avg_games" bson:"mid_avg_games"`
	LateAvgGames         float64 `json:"late_avg_games" bson:"late_avg_games"`
	BalanceThresholdMid  float64 `json:"balance_threshold_mid" bson:"balance_threshold_mid"`
	BalanceThresholdLate float64 `json:"balance_threshold_late" bson:"balance_threshold_late"`
	BalanceWeightEarly   float64 `json:"balance_weight_early" bson:"balance_weight_early"`
	BalanceWeightMid     float64 `json:"balance_weight_mid" bson:"balance_weight_mid"`
	BalanceWeightLate    float64 `json:"balance_weight_late" bson:"balance_weight_late"`
}

// KotCConfig seeds the King-of-the-Court initialization.
type KotCConfig struct {
	CourtOrdering []int           `json:"court_ordering" bson:"court_ordering"`
	SeedingOption string          `json:"seeding_option" bson:"seeding_option"`
	FirstByes     map[string]bool `json:"first_byes" bson:"first_byes"`
}

// Config groups every recognized tuning knob from spec.md §3.
type Config struct {
	Rating     RatingConfig     `json:"rating" bson:"rating"`
	Repetition RepetitionConfig `json:"repetition" bson:"repetition"`
	Roaming    RoamingConfig    `json:"roaming" bson:"roaming"`
	Wait       WaitConfig       `json:"wait" bson:"wait"`
	Adaptive   AdaptiveConfig   `json:"adaptive" bson:"adaptive"`
	KotC       KotCConfig       `json:"kotc" bson:"kotc"`
}

// DefaultConfig returns the named constants from spec.md §3.
func DefaultConfig() Config {
	return Config{
		Rating: RatingConfig{
			BaseRating:       1500,
			MinRating:        800,
			MaxRating:        2200,
			ProvisionalGames: 2,
		},
		Repetition: RepetitionConfig{
			PartnerGapRequired:    3,
			OpponentGapRequired:   2,
			SmallSessionThreshold: 8,
		},
		Roaming: RoamingConfig{
			ActiveFrom: 12,
			Window:     0.5,
		},
		Wait: WaitConfig{
			MinGap:         120,
			SignificantGap: 720,
			ExtremeGap:     1200,
		},
		Adaptive: AdaptiveConfig{
			MidAvgGames:          4,
			LateAvgGames:         6,
			BalanceThresholdMid:  300,
			BalanceThresholdLate: 200,
			BalanceWeightEarly:   1.0,
			BalanceWeightMid:     3.0,
			BalanceWeightLate:    5.0,
		},
		KotC: KotCConfig{
			SeedingOption: SeedingRandom,
			FirstByes:     make(map[string]bool),
		},
	}
}
