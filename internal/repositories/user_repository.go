package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/models"
)

// AccountUpdate carries the mutable profile fields of a user account.
type AccountUpdate struct {
	FullName string
	Email    string
}

// UserRepository defines the data access contract for users and channels.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByLogin(ctx context.Context, identifier string) (models.User, error)
	UpdateAccount(ctx context.Context, id primitive.ObjectID, update AccountUpdate) (models.User, error)
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, asset models.MediaAsset) (models.User, error)
	UpdateCoverImage(ctx context.Context, id primitive.ObjectID, asset models.MediaAsset) (models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	ChannelProfile(ctx context.Context, username string, actor primitive.ObjectID) (models.ChannelProfile, error)
	RecordWatch(ctx context.Context, userID, videoID primitive.ObjectID) error
	WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]models.WatchedVideo, error)
}
