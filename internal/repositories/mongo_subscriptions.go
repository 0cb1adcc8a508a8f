package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
)

// MongoSubscriptionRepository provides MongoDB-backed persistence for
// subscription edges.
type MongoSubscriptionRepository struct {
	subscriptions *mongo.Collection
}

// NewMongoSubscriptionRepository constructs a subscription repository backed
// by MongoDB.
func NewMongoSubscriptionRepository(db *mongo.Database) *MongoSubscriptionRepository {
	return &MongoSubscriptionRepository{subscriptions: db.Collection(CollSubscriptions)}
}

// Toggle deletes the {subscriber, channel} edge if present, otherwise
// inserts it. The unique compound index turns the losing side of a
// concurrent insert race into "subscribed".
func (r *MongoSubscriptionRepository) Toggle(ctx context.Context, subscriber, channel primitive.ObjectID) (bool, error) {
	filter := bson.D{
		{Key: "subscriber", Value: subscriber},
		{Key: "channel", Value: channel},
	}

	res, err := r.subscriptions.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	doc := bson.D{
		{Key: "subscriber", Value: subscriber},
		{Key: "channel", Value: channel},
		{Key: "createdAt", Value: timeNow()},
	}
	if _, err := r.subscriptions.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, fmt.Errorf("insert subscription: %w", err)
	}
	return true, nil
}

// Subscribers lists the users subscribed to the channel.
func (r *MongoSubscriptionRepository) Subscribers(ctx context.Context, channel primitive.ObjectID) ([]models.ChannelUser, error) {
	return r.joinUsers(ctx, bson.D{{Key: "channel", Value: channel}}, "subscriber")
}

// SubscribedChannels lists the channels the user subscribes to.
func (r *MongoSubscriptionRepository) SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID) ([]models.ChannelUser, error) {
	return r.joinUsers(ctx, bson.D{{Key: "subscriber", Value: subscriber}}, "channel")
}

func (r *MongoSubscriptionRepository) joinUsers(ctx context.Context, filter bson.D, localField string) ([]models.ChannelUser, error) {
	pipeline := query.New().
		Match(filter).
		Lookup(CollUsers, localField, "_id", "userDocs").
		Unwind("$userDocs", false).
		ReplaceRoot("$userDocs").
		Project(bson.D{
			{Key: "username", Value: 1},
			{Key: "fullName", Value: 1},
			{Key: "avatar", Value: 1},
		}).
		Pipeline()

	cursor, err := r.subscriptions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate subscription users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.ChannelUser{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode subscription users: %w", err)
	}
	return users, nil
}

var _ SubscriptionRepository = (*MongoSubscriptionRepository)(nil)
