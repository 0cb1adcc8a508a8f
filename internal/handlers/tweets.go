package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/phsics/BackendYouTube/internal/apierror"
	"github.com/phsics/BackendYouTube/internal/logging"
	"github.com/phsics/BackendYouTube/internal/models"
)

// TweetHandler implements tweet endpoints under /api/v1/tweets.
type TweetHandler struct {
	Tweets  TweetStore
	Likes   LikeStore
	NowFunc func() time.Time
}

type tweetRequest struct {
	Content string `json:"content" validate:"required,notblank"`
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(ctx, w, err)
		return
	}

	now := h.now()
	tweet, err := h.Tweets.Create(ctx, models.Tweet{
		Content:   strings.TrimSpace(req.Content),
		Owner:     actor,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to save tweet", err))
		return
	}

	respond(ctx, w, http.StatusCreated, tweet, "tweet created")
}

// ListByUser handles GET /api/v1/tweets/user/{userId}.
func (h TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := pathObjectID(r, "userId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	tweets, err := h.Tweets.ListByOwner(ctx, userID)
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to list tweets", err))
		return
	}
	if tweets == nil {
		tweets = []models.Tweet{}
	}

	respond(ctx, w, http.StatusOK, tweets, "tweets")
}

// Update handles PATCH /api/v1/tweets/{tweetId}.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	id, err := pathObjectID(r, "tweetId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(ctx, w, err)
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "tweet"))
		return
	}
	if tweet.Owner != actor {
		respondError(ctx, w, apierror.New(apierror.Authorization, "only the owner may update this tweet"))
		return
	}

	updated, err := h.Tweets.UpdateContent(ctx, id, strings.TrimSpace(req.Content))
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "tweet"))
		return
	}

	respond(ctx, w, http.StatusOK, updated, "tweet updated")
}

// Delete handles DELETE /api/v1/tweets/{tweetId}, cascading likes on the
// tweet.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	id, err := pathObjectID(r, "tweetId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "tweet"))
		return
	}
	if tweet.Owner != actor {
		respondError(ctx, w, apierror.New(apierror.Authorization, "only the owner may delete this tweet"))
		return
	}

	if err := h.Tweets.Delete(ctx, id); err != nil {
		respondError(ctx, w, mapLookupErr(err, "tweet"))
		return
	}
	if err := h.Likes.DeleteForTweet(ctx, id); err != nil {
		logger.Warn("failed to cascade tweet likes", "tweetId", id.Hex(), "error", err)
	}

	respond(ctx, w, http.StatusOK, nil, "tweet deleted")
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
