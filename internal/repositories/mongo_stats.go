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

// MongoStatsRepository computes channel dashboard aggregates.
type MongoStatsRepository struct {
	videos        *mongo.Collection
	likes         *mongo.Collection
	subscriptions *mongo.Collection
}

// NewMongoStatsRepository constructs a stats repository backed by MongoDB.
func NewMongoStatsRepository(db *mongo.Database) *MongoStatsRepository {
	return &MongoStatsRepository{
		videos:        db.Collection(CollVideos),
		likes:         db.Collection(CollLikes),
		subscriptions: db.Collection(CollSubscriptions),
	}
}

// ChannelStats gathers the owner's video, view, subscriber, and like-given
// figures. Every aggregate defaults to zero when no documents match; an
// empty channel is a valid channel.
func (r *MongoStatsRepository) ChannelStats(ctx context.Context, owner primitive.ObjectID) (models.ChannelStats, error) {
	var stats models.ChannelStats

	if err := r.videoTotals(ctx, owner, &stats); err != nil {
		return models.ChannelStats{}, err
	}
	if err := r.likeTotals(ctx, owner, &stats); err != nil {
		return models.ChannelStats{}, err
	}

	subscribers, err := r.subscriptions.CountDocuments(ctx, bson.D{{Key: "channel", Value: owner}})
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("count subscribers: %w", err)
	}
	stats.TotalSubscribers = subscribers

	return stats, nil
}

func (r *MongoStatsRepository) videoTotals(ctx context.Context, owner primitive.ObjectID, stats *models.ChannelStats) error {
	pipeline := query.New().
		Match(bson.D{{Key: "owner", Value: owner}}).
		Pipeline()
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "totalVideos", Value: bson.D{{Key: "$sum", Value: 1}}},
		{Key: "totalViews", Value: bson.D{{Key: "$sum", Value: "$views"}}},
	}}})

	cursor, err := r.videos.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate video totals: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalVideos int64 `bson:"totalVideos"`
		TotalViews  int64 `bson:"totalViews"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return fmt.Errorf("decode video totals: %w", err)
	}
	if len(rows) > 0 {
		stats.TotalVideos = rows[0].TotalVideos
		stats.TotalViews = rows[0].TotalViews
	}
	return nil
}

// likeTotals counts likes GIVEN by the owner, split by target kind. A like
// document populates exactly one target field, so conditional sums on field
// presence partition the set.
func (r *MongoStatsRepository) likeTotals(ctx context.Context, owner primitive.ObjectID, stats *models.ChannelStats) error {
	countIf := func(field string) bson.D {
		return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, false}}},
			1,
			0,
		}}}}}
	}

	pipeline := query.New().
		Match(bson.D{{Key: "likedBy", Value: owner}}).
		Pipeline()
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "videoLikes", Value: countIf("video")},
		{Key: "commentLikes", Value: countIf("comment")},
		{Key: "tweetLikes", Value: countIf("tweet")},
	}}})

	cursor, err := r.likes.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate like totals: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		VideoLikes   int64 `bson:"videoLikes"`
		CommentLikes int64 `bson:"commentLikes"`
		TweetLikes   int64 `bson:"tweetLikes"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return fmt.Errorf("decode like totals: %w", err)
	}
	if len(rows) > 0 {
		stats.VideoLikes = rows[0].VideoLikes
		stats.CommentLikes = rows[0].CommentLikes
		stats.TweetLikes = rows[0].TweetLikes
	}
	return nil
}

var _ StatsRepository = (*MongoStatsRepository)(nil)
