package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
)

// Fields callers may sort video searches by. Anything else falls back to
// createdAt.
var videoSortFields = map[string]struct{}{
	"createdAt": {},
	"title":     {},
	"duration":  {},
	"views":     {},
}

// MongoVideoRepository provides MongoDB-backed persistence for videos.
type MongoVideoRepository struct {
	videos *mongo.Collection
}

// NewMongoVideoRepository constructs a video repository backed by MongoDB.
func NewMongoVideoRepository(db *mongo.Database) *MongoVideoRepository {
	return &MongoVideoRepository{videos: db.Collection(CollVideos)}
}

// Create persists a new video document.
func (r *MongoVideoRepository) Create(ctx context.Context, video models.Video) (models.Video, error) {
	res, err := r.videos.InsertOne(ctx, video)
	if err != nil {
		return models.Video{}, fmt.Errorf("insert video: %w", err)
	}
	video.ID = res.InsertedID.(primitive.ObjectID)
	return video, nil
}

// FindByID fetches a video by object id.
func (r *MongoVideoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Video, error) {
	return findByID[models.Video](ctx, r.videos, id)
}

// Update applies the provided field changes and returns the updated video.
func (r *MongoVideoRepository) Update(ctx context.Context, id primitive.ObjectID, update VideoUpdate) (models.Video, error) {
	set := bson.D{{Key: "updatedAt", Value: timeNow()}}
	if update.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *update.Title})
	}
	if update.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *update.Description})
	}
	if update.Thumbnail != nil {
		set = append(set, bson.E{Key: "thumbnail", Value: *update.Thumbnail})
	}
	return findAndSet[models.Video](ctx, r.videos, id, set)
}

// Delete removes the video document.
func (r *MongoVideoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.videos, id)
}

// TogglePublish flips the publish flag in a single atomic update and returns
// the updated video.
func (r *MongoVideoRepository) TogglePublish(ctx context.Context, id primitive.ObjectID) (models.Video, error) {
	pipeline := bson.A{bson.D{{Key: "$set", Value: bson.D{
		{Key: "isPublished", Value: bson.D{{Key: "$not", Value: "$isPublished"}}},
		{Key: "updatedAt", Value: timeNow()},
	}}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var video models.Video
	err := r.videos.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, pipeline, opts).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("toggle publish: %w", err)
	}
	return video, nil
}

// IncrementViews bumps the view counter by one.
func (r *MongoVideoRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.videos.UpdateByID(ctx, id, bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Search runs the filtered, sorted, paginated video listing in one
// aggregation pass.
func (r *MongoVideoRepository) Search(ctx context.Context, opts VideoSearchOptions) (query.Page[models.Video], error) {
	sortBy := opts.SortBy
	if _, ok := videoSortFields[sortBy]; !ok {
		sortBy = "createdAt"
	}

	b := query.New()
	if !opts.Owner.IsZero() {
		b.Match(bson.D{{Key: "owner", Value: opts.Owner}})
	}
	pipeline := b.
		Search(opts.Query, "title", "description").
		Sort(sortBy, opts.Descending).
		Paginate(opts.Pagination).
		Pipeline()

	cursor, err := r.videos.Aggregate(ctx, pipeline)
	if err != nil {
		return query.Page[models.Video]{}, fmt.Errorf("aggregate video search: %w", err)
	}
	return query.ReadPage[models.Video](ctx, cursor, opts.Pagination)
}

// ListByOwner returns every video owned by the user, newest first.
func (r *MongoVideoRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Video, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.videos.Find(ctx, bson.D{{Key: "owner", Value: owner}}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list videos by owner: %w", err)
	}
	defer cursor.Close(ctx)

	videos := []models.Video{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("decode owner videos: %w", err)
	}
	return videos, nil
}

var _ VideoRepository = (*MongoVideoRepository)(nil)
