package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phsics/BackendYouTube/internal/models"
)

// MongoTweetRepository provides MongoDB-backed persistence for tweets.
type MongoTweetRepository struct {
	tweets *mongo.Collection
}

// NewMongoTweetRepository constructs a tweet repository backed by MongoDB.
func NewMongoTweetRepository(db *mongo.Database) *MongoTweetRepository {
	return &MongoTweetRepository{tweets: db.Collection(CollTweets)}
}

// Create persists a new tweet document.
func (r *MongoTweetRepository) Create(ctx context.Context, tweet models.Tweet) (models.Tweet, error) {
	res, err := r.tweets.InsertOne(ctx, tweet)
	if err != nil {
		return models.Tweet{}, fmt.Errorf("insert tweet: %w", err)
	}
	tweet.ID = res.InsertedID.(primitive.ObjectID)
	return tweet, nil
}

// FindByID fetches a tweet by object id.
func (r *MongoTweetRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Tweet, error) {
	return findByID[models.Tweet](ctx, r.tweets, id)
}

// ListByOwner returns the user's tweets, newest first.
func (r *MongoTweetRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Tweet, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.tweets.Find(ctx, bson.D{{Key: "owner", Value: owner}}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list tweets by owner: %w", err)
	}
	defer cursor.Close(ctx)

	tweets := []models.Tweet{}
	if err := cursor.All(ctx, &tweets); err != nil {
		return nil, fmt.Errorf("decode owner tweets: %w", err)
	}
	return tweets, nil
}

// UpdateContent replaces the tweet text and returns the updated document.
func (r *MongoTweetRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Tweet, error) {
	return findAndSet[models.Tweet](ctx, r.tweets, id, bson.D{
		{Key: "content", Value: content},
		{Key: "updatedAt", Value: timeNow()},
	})
}

// Delete removes the tweet document.
func (r *MongoTweetRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.tweets, id)
}

var _ TweetRepository = (*MongoTweetRepository)(nil)
