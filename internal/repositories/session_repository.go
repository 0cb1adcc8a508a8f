package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phsics/BackendYouTube/internal/auth"
)

// MongoSessionStore persists refresh-token sessions in MongoDB.
type MongoSessionStore struct {
	sessions *mongo.Collection
}

// NewMongoSessionStore constructs a session store backed by MongoDB.
func NewMongoSessionStore(db *mongo.Database) *MongoSessionStore {
	return &MongoSessionStore{sessions: db.Collection(CollSessions)}
}

// Save upserts the session keyed by its refresh token.
func (s *MongoSessionStore) Save(ctx context.Context, session auth.Session) error {
	filter := bson.D{{Key: "refreshToken", Value: session.RefreshToken}}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.sessions.ReplaceOne(ctx, filter, session, opts); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Find retrieves a session by refresh token.
func (s *MongoSessionStore) Find(ctx context.Context, refreshToken string) (auth.Session, error) {
	var session auth.Session
	err := s.sessions.FindOne(ctx, bson.D{{Key: "refreshToken", Value: refreshToken}}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return auth.Session{}, auth.ErrSessionNotFound
		}
		return auth.Session{}, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

// Delete removes the session associated with the refresh token.
func (s *MongoSessionStore) Delete(ctx context.Context, refreshToken string) error {
	if _, err := s.sessions.DeleteOne(ctx, bson.D{{Key: "refreshToken", Value: refreshToken}}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

var _ auth.SessionStore = (*MongoSessionStore)(nil)
