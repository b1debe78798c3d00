// internal/core/rating.go
// Component 2: Rating Engine. Maps PlayerStats to a bounded rating and
// classifies provisional vs established players. Pure - never mutates.

package core

import (
	"math"
	"sort"
)

// Rating is the outcome of the Rating Engine for one player.
type Rating struct {
	PlayerID    string
	Value       float64
	Provisional bool
}

// ComputeRating implements spec.md §4.1.
func ComputeRating(stats *PlayerStats, seedRating *int, cfg RatingConfig) Rating {
	provisional := stats.GamesPlayed < cfg.ProvisionalGames

	if provisional {
		value := cfg.BaseRating
		if seedRating != nil {
			value = float64(*seedRating)
		}
		return Rating{PlayerID: stats.PlayerID, Value: clamp(value, cfg.MinRating, cfg.MaxRating), Provisional: true}
	}

	winRate := float64(stats.Wins) / float64(maxInt(1, stats.GamesPlayed))
	winRateTerm := math.Log(1+winRate*9)*200 - 200

	avgPointDiff := float64(stats.PointsFor-stats.PointsAgainst) / float64(stats.GamesPlayed)
	pointDiffTerm := sign(avgPointDiff) * math.Log(1+math.Abs(avgPointDiff)) * 50

	consistencyTerm := 0.0
	if winRate >= 0.6 {
		consistencyTerm = math.Log(float64(stats.GamesPlayed)) * 30
	}

	value := cfg.BaseRating + winRateTerm + pointDiffTerm + consistencyTerm
	return Rating{
		PlayerID:    stats.PlayerID,
		Value:       clamp(value, cfg.MinRating, cfg.MaxRating),
		Provisional: false,
	}
}

// RankedPlayer is one entry in the active-player rating order.
type RankedPlayer struct {
	PlayerID    string
	Rating      float64
	Provisional bool
	GamesPlayed int
	Rank        int // 1-based
}

// RankActivePlayers orders active players by rating desc, games played asc,
// id asc, and assigns 1-based ranks. Pure function of session state.
func RankActivePlayers(session *Session) []RankedPlayer {
	ids := session.ActivePlayerIDs()
	out := make([]RankedPlayer, 0, len(ids))
	for _, id := range ids {
		stats := session.Stats[id]
		if stats == nil {
			stats = &PlayerStats{PlayerID: id}
		}
		var seed *int
		if p := session.Players[id]; p != nil {
			seed = p.SeedRating
		}
		r := ComputeRating(stats, seed, session.Config.Rating)
		out = append(out, RankedPlayer{
			PlayerID:    id,
			Rating:      r.Value,
			Provisional: r.Provisional,
			GamesPlayed: stats.GamesPlayed,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		if out[i].GamesPlayed != out[j].GamesPlayed {
			return out[i].GamesPlayed < out[j].GamesPlayed
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// RatingSnapshot indexes RankActivePlayers by player id for O(1) lookups.
type RatingSnapshot struct {
	ByID map[string]RankedPlayer
}

// BuildRatingSnapshot computes ranks once per generator pass.
func BuildRatingSnapshot(session *Session) RatingSnapshot {
	ranked := RankActivePlayers(session)
	byID := make(map[string]RankedPlayer, len(ranked))
	for _, r := range ranked {
		byID[r.PlayerID] = r
	}
	return RatingSnapshot{ByID: byID}
}

func (s RatingSnapshot) Rating(id string) float64 {
	return s.ByID[id].Rating
}

func (s RatingSnapshot) Provisional(id string) bool {
	return s.ByID[id].Provisional
}

func (s RatingSnapshot) Rank(id string) int {
	return s.ByID[id].Rank
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
