package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/models"
)

// LikeTargetKind names the document field a like points at. Exactly one
// target field is populated per like document.
type LikeTargetKind string

const (
	LikeTargetVideo   LikeTargetKind = "video"
	LikeTargetComment LikeTargetKind = "comment"
	LikeTargetTweet   LikeTargetKind = "tweet"
)

// LikeRepository exposes toggle-record access for likes.
type LikeRepository interface {
	// Toggle removes an existing {actor, target} like or creates one when
	// absent, returning the liked state after the call.
	Toggle(ctx context.Context, actor primitive.ObjectID, kind LikeTargetKind, target primitive.ObjectID) (bool, error)
	LikedVideos(ctx context.Context, actor primitive.ObjectID) ([]models.Video, error)
	// DeleteForVideo cascades likes on the video and on the provided comment
	// ids, which belong to comments removed alongside the video.
	DeleteForVideo(ctx context.Context, videoID primitive.ObjectID, commentIDs []primitive.ObjectID) error
	DeleteForComment(ctx context.Context, commentID primitive.ObjectID) error
	DeleteForTweet(ctx context.Context, tweetID primitive.ObjectID) error
}
