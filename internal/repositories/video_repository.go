package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
)

// VideoUpdate carries the mutable fields of a video. Nil pointers leave the
// stored value untouched.
type VideoUpdate struct {
	Title       *string
	Description *string
	Thumbnail   *models.MediaAsset
}

// VideoSearchOptions scope and order a paginated video search.
type VideoSearchOptions struct {
	Owner      primitive.ObjectID // zero value searches across all owners
	Query      string
	SortBy     string
	Descending bool
	Pagination query.Params
}

// VideoRepository exposes data access for uploaded videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) (models.Video, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Video, error)
	Update(ctx context.Context, id primitive.ObjectID, update VideoUpdate) (models.Video, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	TogglePublish(ctx context.Context, id primitive.ObjectID) (models.Video, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	Search(ctx context.Context, opts VideoSearchOptions) (query.Page[models.Video], error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Video, error)
}
