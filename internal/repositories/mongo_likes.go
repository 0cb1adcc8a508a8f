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

// MongoLikeRepository provides MongoDB-backed persistence for like toggle
// records.
type MongoLikeRepository struct {
	likes *mongo.Collection
}

// NewMongoLikeRepository constructs a like repository backed by MongoDB.
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{likes: db.Collection(CollLikes)}
}

// Toggle deletes the {actor, target} like if present, otherwise inserts it.
// The unique partial index on each target field makes the insert the losing
// side of a concurrent race report "liked" instead of duplicating.
func (r *MongoLikeRepository) Toggle(ctx context.Context, actor primitive.ObjectID, kind LikeTargetKind, target primitive.ObjectID) (bool, error) {
	filter := bson.D{
		{Key: "likedBy", Value: actor},
		{Key: string(kind), Value: target},
	}

	res, err := r.likes.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	doc := bson.D{
		{Key: "likedBy", Value: actor},
		{Key: string(kind), Value: target},
		{Key: "createdAt", Value: timeNow()},
	}
	if _, err := r.likes.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, fmt.Errorf("insert like: %w", err)
	}
	return true, nil
}

// LikedVideos returns the video documents the actor has liked.
func (r *MongoLikeRepository) LikedVideos(ctx context.Context, actor primitive.ObjectID) ([]models.Video, error) {
	pipeline := query.New().
		Match(bson.D{
			{Key: "likedBy", Value: actor},
			{Key: "video", Value: bson.D{{Key: "$exists", Value: true}}},
		}).
		Lookup(CollVideos, "video", "_id", "videoDocs").
		Unwind("$videoDocs", false).
		ReplaceRoot("$videoDocs").
		Sort("createdAt", true).
		Pipeline()

	cursor, err := r.likes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate liked videos: %w", err)
	}
	defer cursor.Close(ctx)

	videos := []models.Video{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("decode liked videos: %w", err)
	}
	return videos, nil
}

// DeleteForVideo cascades likes on a deleted video and its removed comments.
func (r *MongoLikeRepository) DeleteForVideo(ctx context.Context, videoID primitive.ObjectID, commentIDs []primitive.ObjectID) error {
	or := bson.A{bson.D{{Key: "video", Value: videoID}}}
	if len(commentIDs) > 0 {
		or = append(or, bson.D{{Key: "comment", Value: bson.D{{Key: "$in", Value: commentIDs}}}})
	}
	if _, err := r.likes.DeleteMany(ctx, bson.D{{Key: "$or", Value: or}}); err != nil {
		return fmt.Errorf("cascade video likes: %w", err)
	}
	return nil
}

// DeleteForComment cascades likes on a deleted comment.
func (r *MongoLikeRepository) DeleteForComment(ctx context.Context, commentID primitive.ObjectID) error {
	if _, err := r.likes.DeleteMany(ctx, bson.D{{Key: "comment", Value: commentID}}); err != nil {
		return fmt.Errorf("cascade comment likes: %w", err)
	}
	return nil
}

// DeleteForTweet cascades likes on a deleted tweet.
func (r *MongoLikeRepository) DeleteForTweet(ctx context.Context, tweetID primitive.ObjectID) error {
	if _, err := r.likes.DeleteMany(ctx, bson.D{{Key: "tweet", Value: tweetID}}); err != nil {
		return fmt.Errorf("cascade tweet likes: %w", err)
	}
	return nil
}

var _ LikeRepository = (*MongoLikeRepository)(nil)
