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

// MongoCommentRepository provides MongoDB-backed persistence for comments.
type MongoCommentRepository struct {
	comments *mongo.Collection
}

// NewMongoCommentRepository constructs a comment repository backed by MongoDB.
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{comments: db.Collection(CollComments)}
}

// Create persists a new comment document.
func (r *MongoCommentRepository) Create(ctx context.Context, comment models.Comment) (models.Comment, error) {
	res, err := r.comments.InsertOne(ctx, comment)
	if err != nil {
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)
	return comment, nil
}

// FindByID fetches a comment by object id.
func (r *MongoCommentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	return findByID[models.Comment](ctx, r.comments, id)
}

// UpdateContent replaces the comment text and returns the updated document.
func (r *MongoCommentRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Comment, error) {
	return findAndSet[models.Comment](ctx, r.comments, id, bson.D{
		{Key: "content", Value: content},
		{Key: "updatedAt", Value: timeNow()},
	})
}

// Delete removes the comment document.
func (r *MongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.comments, id)
}

// ListByVideo returns a newest-first page of comments on the video.
func (r *MongoCommentRepository) ListByVideo(ctx context.Context, videoID primitive.ObjectID, p query.Params) (query.Page[models.Comment], error) {
	pipeline := query.New().
		Match(bson.D{{Key: "video", Value: videoID}}).
		Sort("createdAt", true).
		Paginate(p).
		Pipeline()

	cursor, err := r.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return query.Page[models.Comment]{}, fmt.Errorf("aggregate video comments: %w", err)
	}
	return query.ReadPage[models.Comment](ctx, cursor, p)
}

// DeleteByVideo removes every comment on the video, returning the removed
// comment ids for cascading like cleanup.
func (r *MongoCommentRepository) DeleteByVideo(ctx context.Context, videoID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.D{{Key: "video", Value: videoID}}

	raw, err := r.comments.Distinct(ctx, "_id", filter)
	if err != nil {
		return nil, fmt.Errorf("collect video comment ids: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}

	if _, err := r.comments.DeleteMany(ctx, filter); err != nil {
		return nil, fmt.Errorf("delete video comments: %w", err)
	}
	return ids, nil
}

var _ CommentRepository = (*MongoCommentRepository)(nil)
