// internal/persistence/session_repository.go
// Session persistence (MongoDB). One document per session, replaced
// wholesale on every save - the core package owns all business logic, this
// is a plain snapshot store.

package persistence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iysaleh/pickleball-session-manager/internal/core"
)

// SessionRepository persists core.Session snapshots to MongoDB.
type SessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository creates a session repository against the given
// database, using the "sessions" collection.
func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{collection: db.Collection("sessions")}
}

// Save upserts the full session document, keyed by id.
func (r *SessionRepository) Save(ctx context.Context, session *core.Session) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"id": session.ID}, session, opts)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

// Load retrieves a session by id. Returns (nil, nil) if not found - callers
// distinguish "not found" from a wire error by checking the returned pointer.
func (r *SessionRepository) Load(ctx context.Context, id string) (*core.Session, error) {
	var session core.Session
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return &session, nil
}

// Delete removes a session document.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// ListActive returns the ids of every stored session. The query does not
// filter on player activity, so sessions with no active player are included.
func (r *SessionRepository) ListActive(ctx context.Context) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	ids := make([]string, 0)
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode session id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}
