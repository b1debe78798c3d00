// internal/registry/registry.go
// In-memory directory of live sessions. Each session gets exactly one
// Orchestrator for its lifetime; the registry is the adapter's seam between
// the HTTP/websocket layers and the core package, and the point at which a
// freshly created session is handed off to persistence.

package registry

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/iysaleh/pickleball-session-manager/internal/core"
	"github.com/iysaleh/pickleball-session-manager/internal/persistence"
)

// Registry owns the set of live Orchestrators, keyed by session id.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*core.Orchestrator
	sessCfg core.Config
	repo    *persistence.SessionRepository
	logger  *log.Logger
}

// New builds an empty registry. repo may be nil when persistence is
// disabled, in which case sessions live only in memory for the process
// lifetime.
func New(sessCfg core.Config, repo *persistence.SessionRepository, logger *log.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*core.Orchestrator),
		sessCfg: sessCfg,
		repo:    repo,
		logger:  logger,
	}
}

// Get returns the orchestrator for a session id, loading it from storage on
// a cold lookup if persistence is configured.
func (r *Registry) Get(sessionID string) (*core.Orchestrator, bool) {
	r.mu.RLock()
	o, ok := r.entries[sessionID]
	r.mu.RUnlock()
	if ok {
		return o, true
	}

	if r.repo == nil {
		return nil, false
	}

	session, err := r.repo.Load(context.Background(), sessionID)
	if err != nil {
		r.logger.Printf("registry: load %s failed: %v", sessionID, err)
		return nil, false
	}
	if session == nil {
		return nil, false
	}

	o = core.NewOrchestrator(session, core.RealClock{}, core.NewSessionRNG(session))
	r.mu.Lock()
	r.entries[sessionID] = o
	r.mu.Unlock()
	return o, true
}

// Create registers a brand-new session and returns its orchestrator.
func (r *Registry) Create(sessionID string, mode core.Mode, sessionType core.SessionType, numCourts int) *core.Orchestrator {
	session := core.NewSession(sessionID, mode, sessionType, numCourts, r.sessCfg)
	o := core.NewOrchestrator(session, core.RealClock{}, core.NewSessionRNG(session))

	r.mu.Lock()
	r.entries[sessionID] = o
	r.mu.Unlock()

	r.persist(session)
	return o
}

// Persist saves the current state of a session if persistence is enabled;
// with a nil repo it does nothing. The HTTP handlers do not call it, so a
// session is saved only when Create registers it.
func (r *Registry) Persist(sessionID string) error {
	o, ok := r.Get(sessionID)
	if !ok {
		return fmt.Errorf("registry: unknown session %q", sessionID)
	}
	r.persist(o.Session())
	return nil
}

func (r *Registry) persist(session *core.Session) {
	if r.repo == nil {
		return
	}
	if err := r.repo.Save(context.Background(), session); err != nil {
		r.logger.Printf("registry: save %s failed: %v", session.ID, err)
	}
}
