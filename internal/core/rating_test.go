package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRatingProvisionalUsesSeedOrBase(t *testing.T) {
	cfg := DefaultConfig().Rating
	stats := &PlayerStats{PlayerID: "p1", GamesPlayed: 0}

	r := ComputeRating(stats, nil, cfg)
	assert.True(t, r.Provisional)
	assert.Equal(t, cfg.BaseRating, r.Value)

	seed := 1800
	r2 := ComputeRating(stats, &seed, cfg)
	assert.True(t, r2.Provisional)
	assert.Equal(t, float64(seed), r2.Value)
}

func TestComputeRatingClampsToBounds(t *testing.T) {
	cfg := DefaultConfig().Rating
	stats := &PlayerStats{PlayerID: "p1", GamesPlayed: 0}
	seed := 50000
	r := ComputeRating(stats, &seed, cfg)
	assert.Equal(t, cfg.MaxRating, r.Value)
}

func TestComputeRatingEstablishedRewardsWinRate(t *testing.T) {
	cfg := DefaultConfig().Rating
	winner := &PlayerStats{PlayerID: "p1", GamesPlayed: 10, Wins: 9, Losses: 1, PointsFor: 110, PointsAgainst: 60}
	loser := &PlayerStats{PlayerID: "p2", GamesPlayed: 10, Wins: 1, Losses: 9, PointsFor: 60, PointsAgainst: 110}

	rw := ComputeRating(winner, nil, cfg)
	rl := ComputeRating(loser, nil, cfg)

	require.False(t, rw.Provisional)
	require.False(t, rl.Provisional)
	assert.Greater(t, rw.Value, rl.Value)
}

func TestRankActivePlayersOrdersByRatingThenGamesThenID(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionSingles, 1, DefaultConfig())
	seed1, seed2 := 1600, 1500
	for id, seed := range map[string]int{"b": seed2, "a": seed1} {
		s.Players[id] = &Player{ID: id, Active: true, SeedRating: &seed}
		s.ActiveIDs[id] = true
		s.Stats[id] = &PlayerStats{PlayerID: id}
	}

	ranked := RankActivePlayers(s)
	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].PlayerID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "b", ranked[1].PlayerID)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRatingSnapshotLookups(t *testing.T) {
	s := NewSession("s1", ModeCompetitiveVariety, SessionSingles, 1, DefaultConfig())
	s.Players["p1"] = &Player{ID: "p1", Active: true}
	s.ActiveIDs["p1"] = true
	s.Stats["p1"] = &PlayerStats{PlayerID: "p1"}

	snap := BuildRatingSnapshot(s)
	assert.Equal(t, DefaultConfig().Rating.BaseRating, snap.Rating("p1"))
	assert.True(t, snap.Provisional("p1"))
	assert.Equal(t, 1, snap.Rank("p1"))
	assert.Equal(t, 0.0, snap.Rating("unknown"))
}
