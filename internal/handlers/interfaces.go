package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
	"github.com/phsics/BackendYouTube/internal/repositories"
)

// UserStore is the user data access surface handlers depend on.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByLogin(ctx context.Context, identifier string) (models.User, error)
	UpdateAccount(ctx context.Context, id primitive.ObjectID, update repositories.AccountUpdate) (models.User, error)
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, asset models.MediaAsset) (models.User, error)
	UpdateCoverImage(ctx context.Context, id primitive.ObjectID, asset models.MediaAsset) (models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	ChannelProfile(ctx context.Context, username string, actor primitive.ObjectID) (models.ChannelProfile, error)
	RecordWatch(ctx context.Context, userID, videoID primitive.ObjectID) error
	WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]models.WatchedVideo, error)
}

// VideoStore is the video data access surface handlers depend on.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) (models.Video, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Video, error)
	Update(ctx context.Context, id primitive.ObjectID, update repositories.VideoUpdate) (models.Video, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	TogglePublish(ctx context.Context, id primitive.ObjectID) (models.Video, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	Search(ctx context.Context, opts repositories.VideoSearchOptions) (query.Page[models.Video], error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Video, error)
}

// CommentStore is the comment data access surface handlers depend on.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) (models.Comment, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByVideo(ctx context.Context, videoID primitive.ObjectID, p query.Params) (query.Page[models.Comment], error)
	DeleteByVideo(ctx context.Context, videoID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// TweetStore is the tweet data access surface handlers depend on.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) (models.Tweet, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Tweet, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Tweet, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Tweet, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlaylistStore is the playlist data access surface handlers depend on.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) (models.Playlist, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Playlist, error)
	WithVideos(ctx context.Context, id primitive.ObjectID) (models.PlaylistWithVideos, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.PlaylistWithVideos, error)
	AddVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (models.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (models.Playlist, error)
	Update(ctx context.Context, id primitive.ObjectID, update repositories.PlaylistUpdate) (models.Playlist, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// LikeStore is the like toggle-record surface handlers depend on.
type LikeStore interface {
	Toggle(ctx context.Context, actor primitive.ObjectID, kind repositories.LikeTargetKind, target primitive.ObjectID) (bool, error)
	LikedVideos(ctx context.Context, actor primitive.ObjectID) ([]models.Video, error)
	DeleteForVideo(ctx context.Context, videoID primitive.ObjectID, commentIDs []primitive.ObjectID) error
	DeleteForComment(ctx context.Context, commentID primitive.ObjectID) error
	DeleteForTweet(ctx context.Context, tweetID primitive.ObjectID) error
}

// SubscriptionStore is the subscription toggle-record surface handlers
// depend on.
type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriber, channel primitive.ObjectID) (bool, error)
	Subscribers(ctx context.Context, channel primitive.ObjectID) ([]models.ChannelUser, error)
	SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID) ([]models.ChannelUser, error)
}

// StatsStore computes dashboard aggregates for a channel owner.
type StatsStore interface {
	ChannelStats(ctx context.Context, owner primitive.ObjectID) (models.ChannelStats, error)
}

// SessionManager issues, refreshes, and revokes bearer sessions.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string)
}
