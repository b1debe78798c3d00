// internal/cache/cache.go
// Redis-backed memoization for the Outcome-Dependency Analyzer and a generic
// snapshot cache for the presentation layer.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iysaleh/pickleball-session-manager/internal/core"
)

// Service wraps a Redis client for caching operations. One Service is shared
// by all sessions; per-session entries are separated by their keys.
type Service struct {
	client *redis.Client
	logger *log.Logger
}

// New creates a cache service.
func New(client *redis.Client, logger *log.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Set stores a value with expiration.
func (s *Service) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Get retrieves a value from cache.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("key not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get from cache: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// Delete removes a key from cache.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}

// Ping checks if the cache is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// dependencyKey keys the analyzer's memoized result on session id and the
// session's mutation counter, so any state change invalidates it implicitly.
func dependencyKey(session *core.Session) string {
	return fmt.Sprintf("session:%s:dependency:v%d", session.ID, session.Version())
}

// GetOrAnalyzeDependency returns the memoized Outcome-Dependency Analyzer
// result for the session's current version, computing and caching it on a
// miss. The analyzer itself never touches Redis or the real session.
func (s *Service) GetOrAnalyzeDependency(ctx context.Context, session *core.Session, now float64, ttl time.Duration) (core.DependencyResult, error) {
	key := dependencyKey(session)

	var cached core.DependencyResult
	if err := s.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	result := core.AnalyzeOutcomeDependency(session, now)
	if err := s.Set(ctx, key, result, ttl); err != nil {
		s.logger.Printf("failed to cache dependency analysis for session %s: %v", session.ID, err)
	}
	return result, nil
}

// InvalidateDependency evicts a stale memoized result, used when a caller
// wants a forced recompute ahead of the session's next version bump.
func (s *Service) InvalidateDependency(ctx context.Context, session *core.Session) error {
	return s.Delete(ctx, dependencyKey(session))
}
