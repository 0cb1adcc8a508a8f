package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/models"
)

// PlaylistUpdate carries the mutable fields of a playlist. Nil pointers
// leave the stored value untouched.
type PlaylistUpdate struct {
	Name        *string
	Description *string
}

// PlaylistRepository exposes data access for playlists.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) (models.Playlist, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Playlist, error)
	WithVideos(ctx context.Context, id primitive.ObjectID) (models.PlaylistWithVideos, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.PlaylistWithVideos, error)
	AddVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (models.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (models.Playlist, error)
	Update(ctx context.Context, id primitive.ObjectID, update PlaylistUpdate) (models.Playlist, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
