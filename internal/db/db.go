// Package db wires the MongoDB client and the index bootstrap the toggle
// semantics depend on.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/phsics/BackendYouTube/internal/repositories"
)

// Connect initialises a MongoDB client for the provided URI and verifies the
// connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the indexes the application relies on. The unique
// partial indexes on likes and the compound index on subscriptions are what
// make the toggle operations race-safe; without them a concurrent toggle
// could insert duplicate records.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := database.Collection(repositories.CollUsers).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}

	likeIndexes := make([]mongo.IndexModel, 0, 3)
	for _, target := range []string{"video", "comment", "tweet"} {
		likeIndexes = append(likeIndexes, mongo.IndexModel{
			Keys: bson.D{{Key: "likedBy", Value: 1}, {Key: target, Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: target, Value: bson.D{{Key: "$exists", Value: true}}}}),
		})
	}
	if _, err := database.Collection(repositories.CollLikes).Indexes().CreateMany(ctx, likeIndexes); err != nil {
		return fmt.Errorf("ensure like indexes: %w", err)
	}

	subscriptionIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}},
		Options: unique,
	}
	if _, err := database.Collection(repositories.CollSubscriptions).Indexes().CreateOne(ctx, subscriptionIndex); err != nil {
		return fmt.Errorf("ensure subscription index: %w", err)
	}

	commentIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "video", Value: 1}, {Key: "createdAt", Value: -1}},
	}
	if _, err := database.Collection(repositories.CollComments).Indexes().CreateOne(ctx, commentIndex); err != nil {
		return fmt.Errorf("ensure comment index: %w", err)
	}

	videoIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}},
	}
	if _, err := database.Collection(repositories.CollVideos).Indexes().CreateOne(ctx, videoIndex); err != nil {
		return fmt.Errorf("ensure video index: %w", err)
	}

	sessionIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "refreshToken", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
	if _, err := database.Collection(repositories.CollSessions).Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return fmt.Errorf("ensure session indexes: %w", err)
	}

	return nil
}
