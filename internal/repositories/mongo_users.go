package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
)

// MongoUserRepository provides MongoDB-backed persistence for users.
type MongoUserRepository struct {
	users  *mongo.Collection
	videos *mongo.Collection
}

// NewMongoUserRepository constructs a user repository backed by MongoDB.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		users:  db.Collection(CollUsers),
		videos: db.Collection(CollVideos),
	}
}

// Create persists a new user document.
func (r *MongoUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	res, err := r.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// FindByID fetches a user by object id.
func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return findByID[models.User](ctx, r.users, id)
}

// FindByLogin fetches a user by username or email address.
func (r *MongoUserRepository) FindByLogin(ctx context.Context, identifier string) (models.User, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: identifier}},
		bson.D{{Key: "email", Value: identifier}},
	}}}

	var user models.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user by login: %w", err)
	}
	return user, nil
}

// UpdateAccount modifies the user's profile fields.
func (r *MongoUserRepository) UpdateAccount(ctx context.Context, id primitive.ObjectID, update AccountUpdate) (models.User, error) {
	set := bson.D{
		{Key: "fullName", Value: update.FullName},
		{Key: "email", Value: update.Email},
		{Key: "updatedAt", Value: timeNow()},
	}
	user, err := findAndSet[models.User](ctx, r.users, id, set)
	if err != nil {
		// The unique email index rejects an address already held by
		// another account.
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, err
	}
	return user, nil
}

// UpdateAvatar swaps the user's avatar asset.
func (r *MongoUserRepository) UpdateAvatar(ctx context.Context, id primitive.ObjectID, asset models.MediaAsset) (models.User, error) {
	return findAndSet[models.User](ctx, r.users, id, bson.D{
		{Key: "avatar", Value: asset},
		{Key: "updatedAt", Value: timeNow()},
	})
}

// UpdateCoverImage swaps the user's cover image asset.
func (r *MongoUserRepository) UpdateCoverImage(ctx context.Context, id primitive.ObjectID, asset models.MediaAsset) (models.User, error) {
	return findAndSet[models.User](ctx, r.users, id, bson.D{
		{Key: "coverImage", Value: asset},
		{Key: "updatedAt", Value: timeNow()},
	})
}

// UpdatePassword stores a new password hash for the user.
func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := r.users.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "password", Value: passwordHash},
		{Key: "updatedAt", Value: timeNow()},
	}}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ChannelProfile resolves a channel by username, deriving subscriber counts
// and whether the acting user subscribes to it.
func (r *MongoUserRepository) ChannelProfile(ctx context.Context, username string, actor primitive.ObjectID) (models.ChannelProfile, error) {
	pipeline := query.New().
		Match(bson.D{{Key: "username", Value: username}}).
		Lookup(CollSubscriptions, "_id", "channel", "subscribers").
		Lookup(CollSubscriptions, "_id", "subscriber", "subscribedTo").
		AddFields(bson.D{
			{Key: "subscriberCount", Value: bson.D{{Key: "$size", Value: "$subscribers"}}},
			{Key: "subscribedToCount", Value: bson.D{{Key: "$size", Value: "$subscribedTo"}}},
			{Key: "isSubscribed", Value: bson.D{{Key: "$in", Value: bson.A{actor, "$subscribers.subscriber"}}}},
		}).
		Project(bson.D{
			{Key: "username", Value: 1},
			{Key: "fullName", Value: 1},
			{Key: "avatar", Value: 1},
			{Key: "coverImage", Value: 1},
			{Key: "subscriberCount", Value: 1},
			{Key: "subscribedToCount", Value: 1},
			{Key: "isSubscribed", Value: 1},
		}).
		Pipeline()

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("aggregate channel profile: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []models.ChannelProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return models.ChannelProfile{}, fmt.Errorf("decode channel profile: %w", err)
	}
	if len(profiles) == 0 {
		return models.ChannelProfile{}, ErrNotFound
	}
	return profiles[0], nil
}

// RecordWatch moves the video to the front of the user's watch history.
func (r *MongoUserRepository) RecordWatch(ctx context.Context, userID, videoID primitive.ObjectID) error {
	// Pull-then-push so a rewatch moves the entry to the front instead of
	// duplicating it.
	if _, err := r.users.UpdateByID(ctx, userID, bson.D{
		{Key: "$pull", Value: bson.D{{Key: "watchHistory", Value: videoID}}},
	}); err != nil {
		return fmt.Errorf("prune watch history: %w", err)
	}

	res, err := r.users.UpdateByID(ctx, userID, bson.D{
		{Key: "$push", Value: bson.D{{Key: "watchHistory", Value: bson.D{
			{Key: "$each", Value: bson.A{videoID}},
			{Key: "$position", Value: 0},
		}}}},
	})
	if err != nil {
		return fmt.Errorf("record watch: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// WatchHistory materialises the user's watch history as video documents with
// owner details, preserving the recorded order.
func (r *MongoUserRepository) WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]models.WatchedVideo, error) {
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.WatchHistory) == 0 {
		return []models.WatchedVideo{}, nil
	}

	pipeline := query.New().
		Match(bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: user.WatchHistory}}}}).
		Lookup(CollUsers, "owner", "_id", "ownerDocs").
		Unwind("$ownerDocs", true).
		AddFields(bson.D{{Key: "ownerDetails", Value: bson.D{
			{Key: "_id", Value: "$ownerDocs._id"},
			{Key: "username", Value: "$ownerDocs.username"},
			{Key: "fullName", Value: "$ownerDocs.fullName"},
			{Key: "avatar", Value: "$ownerDocs.avatar"},
		}}}).
		Project(bson.D{{Key: "ownerDocs", Value: 0}}).
		Pipeline()

	cursor, err := r.videos.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate watch history: %w", err)
	}
	defer cursor.Close(ctx)

	var joined []models.WatchedVideo
	if err := cursor.All(ctx, &joined); err != nil {
		return nil, fmt.Errorf("decode watch history: %w", err)
	}

	// $in does not preserve input order; restore the history order.
	byID := make(map[primitive.ObjectID]models.WatchedVideo, len(joined))
	for _, v := range joined {
		byID[v.ID] = v
	}
	ordered := make([]models.WatchedVideo, 0, len(joined))
	for _, id := range user.WatchHistory {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}

var _ UserRepository = (*MongoUserRepository)(nil)
