package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
)

// CommentRepository exposes data access for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) (models.Comment, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByVideo(ctx context.Context, videoID primitive.ObjectID, p query.Params) (query.Page[models.Comment], error)
	// DeleteByVideo removes every comment on the video and returns the ids of
	// the removed comments so dependent likes can be cascaded.
	DeleteByVideo(ctx context.Context, videoID primitive.ObjectID) ([]primitive.ObjectID, error)
}
