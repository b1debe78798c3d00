// internal/api/handlers.go
// Read-only presentation HTTP surface over one or more live sessions, plus a
// small set of operator-gated debug mutators. The core package remains the
// only place that enforces session semantics; handlers just translate.

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iysaleh/pickleball-session-manager/internal/cache"
	"github.com/iysaleh/pickleball-session-manager/internal/config"
	"github.com/iysaleh/pickleball-session-manager/internal/core"
)

// Registry looks up a live orchestrator by session id. The adapter's process
// owns the in-memory map; this package looks sessions up and creates new ones
// through it.
type Registry interface {
	Get(sessionID string) (*core.Orchestrator, bool)
	Create(sessionID string, mode core.Mode, sessionType core.SessionType, numCourts int) *core.Orchestrator
}

// Dependencies bundles what the HTTP handlers need.
type Dependencies struct {
	Registry Registry
	Cache    *cache.Service
	Config   *config.Config
}

// HealthCheck reports basic liveness, mirroring the teacher's /health probe.
func HealthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	}
}

// RegisterSessionRoutes mounts the presentation and debug-mutation surface
// under the given router group.
func RegisterSessionRoutes(rg *gin.RouterGroup, deps Dependencies, requireOperator gin.HandlerFunc) {
	rg.GET("/sessions/:id", deps.getSession)
	rg.GET("/sessions/:id/players", deps.getPlayers)
	rg.GET("/sessions/:id/matches", deps.getMatches)
	rg.GET("/sessions/:id/dependency", deps.getDependencyAnalysis)

	mutating := rg.Group("/sessions")
	mutating.Use(requireOperator)
	{
		mutating.POST("", deps.createSession)
		mutating.POST("/:id/players", deps.addPlayer)
		mutating.DELETE("/:id/players/:playerId", deps.removePlayer)
		mutating.POST("/:id/matches/:matchId/complete", deps.completeMatch)
		mutating.POST("/:id/matches/:matchId/forfeit", deps.forfeitMatch)
		mutating.POST("/:id/evaluate", deps.evaluate)
	}
}

func (d Dependencies) lookup(c *gin.Context) (*core.Orchestrator, bool) {
	id := c.Param("id")
	o, ok := d.Registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return o, true
}

func (d Dependencies) getSession(c *gin.Context) {
	o, ok := d.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionSummary(o.Session()))
}

func (d Dependencies) getPlayers(c *gin.Context) {
	o, ok := d.lookup(c)
	if !ok {
		return
	}
	session := o.Session()
	ratings := core.BuildRatingSnapshot(session)
	out := make([]gin.H, 0, len(session.Players))
	for id, p := range session.Players {
		stats := session.Stats[id]
		out = append(out, gin.H{
			"id":           id,
			"display_name": p.DisplayName,
			"active":       session.ActiveIDs[id],
			"rating":       ratings.Rating(id),
			"provisional":  ratings.Provisional(id),
			"games_played": stats.GamesPlayed,
			"games_waited": stats.GamesWaited,
		})
	}
	c.JSON(http.StatusOK, gin.H{"players": out})
}

func (d Dependencies) getMatches(c *gin.Context) {
	o, ok := d.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": o.Session().Matches})
}

func (d Dependencies) getDependencyAnalysis(c *gin.Context) {
	o, ok := d.lookup(c)
	if !ok {
		return
	}
	result, err := d.Cache.GetOrAnalyzeDependency(c.Request.Context(), o.Session(), nowSeconds(), 30*time.Second)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dependency": result.ByPlayer})
}

type createSessionRequest struct {
	ID          string `json:"id" binding:"required"`
	Mode        string `json:"mode" binding:"required,oneof=competitive-variety king-of-the-court"`
	SessionType string `json:"session_type" binding:"required,oneof=singles doubles"`
	NumCourts   int    `json:"num_courts" binding:"required,min=1"`
}

func (d Dependencies) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o := d.Registry.Create(req.ID, core.Mode(req.Mode), core.SessionType(req.SessionType), req.NumCourts)
	c.JSON(http.StatusCreated, sessionSummary(o.Session()))
}

type addPlayerRequest struct {
	PlayerID    string `json:"player_id" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	SeedRating  *int   `json:"seed_rating"`
}

func (d Dependencies) addPlayer(c *gin.Context) {
	o, ok := d.lookup(c)
	if !ok {
		return
	}
	var req addPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := o.AddPlayer(req.PlayerID, req.DisplayName, req.SeedRating); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionSummary(o.Session()))
}

func (d Dependencies) removePlayer(c *gin.Context) {
	o, ok := d.lookup(c)
	if !ok {
		return
	}
	if err := o.RemovePlayer(c.Param("playerId")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionSummary(o.Session()))
}

type completeMatchRequest struct {
	Team1Points int `json:"team1_points" binding:"required"`
	Team2Points int `json:"team2_points" binding:"required"`
}

func (d Dependencies) completeMatch(c *gin.Context) {
	o, ok := d.lookup(c)
	if !ok {
		return
	}
	var req completeMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := o.CompleteMatch(c.Param("matchId"), req.Team1Points, req.Team2Points); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionSummary(o.Session()))
}

func (d Dependencies) forfeitMatch(c *gin.Context) {
	o, ok := d.lookup(c)
	if !ok {
		return
	}
	if err := o.ForfeitMatch(c.Param("matchId")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionSummary(o.Session()))
}

func (d Dependencies) evaluate(c *gin.Context) {
	o, ok := d.lookup(c)
	if !ok {
		return
	}
	o.Evaluate()
	c.JSON(http.StatusOK, sessionSummary(o.Session()))
}

func sessionSummary(s *core.Session) gin.H {
	return gin.H{
		"id":           s.ID,
		"mode":         s.Mode,
		"session_type": s.SessionType,
		"num_courts":   s.NumCourts,
		"version":      s.Version(),
		"match_count":  len(s.Matches),
	}
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
