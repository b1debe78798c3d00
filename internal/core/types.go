// internal/core/types.go
// Domain models for the pickleball session core: players, matches, sessions.

package core

import (
	"fmt"
	"sort"
)

// Player is a stable participant identity within a session.
type Player struct {
	ID          string `json:"id" bson:"id"`
	DisplayName string `json:"display_name" bson:"display_name"`
	Active      bool   `json:"active" bson:"active"`
	SeedRating  *int   `json:"seed_rating,omitempty" bson:"seed_rating,omitempty"`
}

// PlayerStats tracks one player's accumulated session history.
// Partner/opponent multisets and personal ordering are derivable from the
// match list (see HistoryIndex) and are intentionally not duplicated here.
type PlayerStats struct {
	PlayerID       string   `json:"player_id" bson:"player_id"`
	GamesPlayed    int      `json:"games_played" bson:"games_played"`
	GamesWaited    int      `json:"games_waited" bson:"games_waited"`
	TotalWaitTime  float64  `json:"total_wait_time" bson:"total_wait_time"`
	WaitStart      *float64 `json:"wait_start,omitempty" bson:"wait_start,omitempty"`
	Wins           int      `json:"wins" bson:"wins"`
	Losses         int      `json:"losses" bson:"losses"`
	PointsFor      int      `json:"points_for" bson:"points_for"`
	PointsAgainst  int      `json:"points_against" bson:"points_against"`
}

// EffectiveWait returns total_wait_time plus any running timer, in seconds.
func (s *PlayerStats) EffectiveWait(now float64) float64 {
	if s.WaitStart != nil {
		return s.TotalWaitTime + (now - *s.WaitStart)
	}
	return s.TotalWaitTime
}

// MatchStatus is the lifecycle state of a Match.
type MatchStatus string

const (
	MatchWaiting    MatchStatus = "waiting"
	MatchInProgress MatchStatus = "in-progress"
	MatchCompleted  MatchStatus = "completed"
	MatchForfeited  MatchStatus = "forfeited"
)

// Terminal reports whether the match can no longer change state.
func (s MatchStatus) Terminal() bool {
	return s == MatchCompleted || s == MatchForfeited
}

// Score holds the reported points for a completed match.
type Score struct {
	Team1Points int `json:"team1_points" bson:"team1_points"`
	Team2Points int `json:"team2_points" bson:"team2_points"`
}

// Match is one generated or manually-created fixture on a court.
type Match struct {
	ID           string      `json:"id" bson:"id"`
	Court        int         `json:"court" bson:"court"`
	Team1        []string    `json:"team1" bson:"team1"`
	Team2        []string    `json:"team2" bson:"team2"`
	Status       MatchStatus `json:"status" bson:"status"`
	Score        *Score      `json:"score,omitempty" bson:"score,omitempty"`
	CreatedAt    float64     `json:"created_at" bson:"created_at"`
	CrossBracket bool        `json:"cross_bracket" bson:"cross_bracket"`
	KotCRound    int         `json:"kotc_round,omitempty" bson:"kotc_round,omitempty"`
}

// Players returns the four (or two) players in the match, team1 then team2.
func (m *Match) Players() []string {
	out := make([]string, 0, len(m.Team1)+len(m.Team2))
	out = append(out, m.Team1...)
	out = append(out, m.Team2...)
	return out
}

// Has reports whether the given player participates in this match.
func (m *Match) Has(playerID string) bool {
	for _, id := range m.Players() {
		if id == playerID {
			return true
		}
	}
	return false
}

// Mode selects which generator owns match creation for a session.
type Mode string

const (
	ModeCompetitiveVariety Mode = "competitive-variety"
	ModeKingOfTheCourt     Mode = "king-of-the-court"
)

// SessionType determines team size: 1 for singles, 2 for doubles.
type SessionType string

const (
	SessionSingles SessionType = "singles"
	SessionDoubles SessionType = "doubles"
)

// PlayersPerTeam returns 1 for singles, 2 for doubles.
func (t SessionType) PlayersPerTeam() int {
	if t == SessionSingles {
		return 1
	}
	return 2
}

// PlayersPerMatch returns 2 for singles, 4 for doubles.
func (t SessionType) PlayersPerMatch() int {
	return t.PlayersPerTeam() * 2
}

// PairKey is a normalized unordered pair of player ids, usable as a map key.
type PairKey struct {
	A, B string
}

// NewPairKey normalizes (a,b) so PairKey(a,b) == PairKey(b,a).
func NewPairKey(a, b string) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

func (p PairKey) String() string {
	return fmt.Sprintf("%s|%s", p.A, p.B)
}

// KotCState holds the King-of-the-Court mode's extra session state.
type KotCState struct {
	RoundNumber     int             `json:"round_number" bson:"round_number"`
	PlayerPositions map[string]int  `json:"player_positions" bson:"player_positions"`
	WaitCounts      map[string]int  `json:"wait_counts" bson:"wait_counts"`
	CourtOrdering   []int           `json:"court_ordering" bson:"court_ordering"`
	SeedingOption   string          `json:"seeding_option" bson:"seeding_option"`
	FirstByes       map[string]bool `json:"first_byes" bson:"first_byes"`
}

const (
	SeedingRandom     = "random"
	SeedingHighToLow  = "high_to_low"
	SeedingLowToHigh  = "low_to_high"
)

// Session is the full mutable state of one pickleball session.
type Session struct {
	ID          string                  `json:"id" bson:"id"`
	Players     map[string]*Player      `json:"players" bson:"players"`
	ActiveIDs   map[string]bool         `json:"active_ids" bson:"active_ids"`
	Mode        Mode                    `json:"mode" bson:"mode"`
	SessionType SessionType             `json:"session_type" bson:"session_type"`
	NumCourts   int                     `json:"num_courts" bson:"num_courts"`
	Matches     []*Match                `json:"matches" bson:"matches"`
	Stats       map[string]*PlayerStats `json:"stats" bson:"stats"`
	Config      Config                  `json:"config" bson:"config"`

	AdaptiveDisabled     bool     `json:"adaptive_disabled" bson:"adaptive_disabled"`
	ManualBalanceWeight  *float64 `json:"manual_balance_weight,omitempty" bson:"manual_balance_weight,omitempty"`

	BannedPairs map[PairKey]bool `json:"banned_pairs" bson:"banned_pairs"`
	LockedTeams map[PairKey]bool `json:"locked_teams" bson:"locked_teams"`

	KotC *KotCState `json:"kotc,omitempty" bson:"kotc,omitempty"`

	version int64
}

// NewSession builds an empty session ready for players to be added.
func NewSession(id string, mode Mode, sessionType SessionType, numCourts int, cfg Config) *Session {
	return &Session{
		ID:          id,
		Players:     make(map[string]*Player),
		ActiveIDs:   make(map[string]bool),
		Mode:        mode,
		SessionType: sessionType,
		NumCourts:   numCourts,
		Matches:     make([]*Match, 0),
		Stats:       make(map[string]*PlayerStats),
		Config:      cfg,
		BannedPairs: make(map[PairKey]bool),
		LockedTeams: make(map[PairKey]bool),
	}
}

// ActivePlayerIDs returns a stable-ordered snapshot of active player ids.
func (s *Session) ActivePlayerIDs() []string {
	out := make([]string, 0, len(s.ActiveIDs))
	for id, active := range s.ActiveIDs {
		if active {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// NonTerminalMatches returns matches currently waiting or in-progress.
func (s *Session) NonTerminalMatches() []*Match {
	out := make([]*Match, 0)
	for _, m := range s.Matches {
		if !m.Status.Terminal() {
			out = append(out, m)
		}
	}
	return out
}

// PlayingPlayers returns the set of player ids currently in a non-terminal match.
func (s *Session) PlayingPlayers() map[string]bool {
	out := make(map[string]bool)
	for _, m := range s.NonTerminalMatches() {
		for _, id := range m.Players() {
			out[id] = true
		}
	}
	return out
}

// WaitingPlayers returns active players not currently in a non-terminal
// match, sorted by id. Map iteration order is unspecified, and this slice
// feeds the Wait-Priority Engine's shuffle and the CV generator's candidate
// pool, so an unsorted result would make both non-deterministic.
func (s *Session) WaitingPlayers() []string {
	playing := s.PlayingPlayers()
	out := make([]string, 0)
	for id, active := range s.ActiveIDs {
		if active && !playing[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// MatchByCourt returns the non-terminal match occupying a court, if any.
func (s *Session) MatchByCourt(court int) *Match {
	for _, m := range s.NonTerminalMatches() {
		if m.Court == court {
			return m
		}
	}
	return nil
}

// MatchByID looks up a match by id, including terminal ones.
func (s *Session) MatchByID(id string) *Match {
	for _, m := range s.Matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *Session) bumpVersion() { s.version++ }

// Version returns a monotonic counter bumped on every mutation, used by
// adapters (e.g. the analyzer cache) to detect staleness without hashing.
func (s *Session) Version() int64 { return s.version }
