package handlers

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/apierror"
	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/repositories"
)

// LikeHandler implements like toggles under /api/v1/likes.
type LikeHandler struct {
	Likes    LikeStore
	Videos   VideoStore
	Comments CommentStore
	Tweets   TweetStore
}

type toggleResponse struct {
	Liked bool `json:"liked"`
}

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "videoId", repositories.LikeTargetVideo, func(ctx context.Context, id primitive.ObjectID) error {
		_, err := h.Videos.FindByID(ctx, id)
		return err
	}, "video")
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "commentId", repositories.LikeTargetComment, func(ctx context.Context, id primitive.ObjectID) error {
		_, err := h.Comments.FindByID(ctx, id)
		return err
	}, "comment")
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "tweetId", repositories.LikeTargetTweet, func(ctx context.Context, id primitive.ObjectID) error {
		_, err := h.Tweets.FindByID(ctx, id)
		return err
	}, "tweet")
}

func (h LikeHandler) toggle(
	w http.ResponseWriter,
	r *http.Request,
	param string,
	kind repositories.LikeTargetKind,
	exists func(ctx context.Context, id primitive.ObjectID) error,
	entity string,
) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	target, err := pathObjectID(r, param)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := exists(ctx, target); err != nil {
		respondError(ctx, w, mapLookupErr(err, entity))
		return
	}

	liked, err := h.Likes.Toggle(ctx, actor, kind, target)
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to toggle like", err))
		return
	}

	respond(ctx, w, http.StatusOK, toggleResponse{Liked: liked}, "like toggled")
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	videos, err := h.Likes.LikedVideos(ctx, actor)
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to list liked videos", err))
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}

	respond(ctx, w, http.StatusOK, videos, "liked videos")
}
