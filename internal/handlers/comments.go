package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/phsics/BackendYouTube/internal/apierror"
	"github.com/phsics/BackendYouTube/internal/logging"
	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
)

// CommentHandler implements comment endpoints under /api/v1/comments.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
	Likes    LikeStore
	NowFunc  func() time.Time
}

type commentRequest struct {
	Content string `json:"content" validate:"required,notblank"`
}

// Create handles POST /api/v1/comments/{videoId}.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	videoID, err := pathObjectID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(ctx, w, err)
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, mapLookupErr(err, "video"))
		return
	}

	now := h.now()
	comment, err := h.Comments.Create(ctx, models.Comment{
		Content:   strings.TrimSpace(req.Content),
		Video:     videoID,
		Owner:     actor,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to save comment", err))
		return
	}

	respond(ctx, w, http.StatusCreated, comment, "comment added")
}

// List handles GET /api/v1/comments/{videoId}?page&limit, newest first.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, err := pathObjectID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, mapLookupErr(err, "video"))
		return
	}

	q := r.URL.Query()
	page, err := h.Comments.ListByVideo(ctx, videoID, query.ParsePagination(q.Get("page"), q.Get("limit")))
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to list comments", err))
		return
	}

	respond(ctx, w, http.StatusOK, page, "comments")
}

// Update handles PATCH /api/v1/comments/c/{commentId}.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	id, err := pathObjectID(r, "commentId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(ctx, w, err)
		return
	}

	comment, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "comment"))
		return
	}
	if comment.Owner != actor {
		respondError(ctx, w, apierror.New(apierror.Authorization, "only the owner may update this comment"))
		return
	}

	updated, err := h.Comments.UpdateContent(ctx, id, strings.TrimSpace(req.Content))
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "comment"))
		return
	}

	respond(ctx, w, http.StatusOK, updated, "comment updated")
}

// Delete handles DELETE /api/v1/comments/c/{commentId}, cascading likes on
// the comment.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	id, err := pathObjectID(r, "commentId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	comment, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "comment"))
		return
	}
	if comment.Owner != actor {
		respondError(ctx, w, apierror.New(apierror.Authorization, "only the owner may delete this comment"))
		return
	}

	if err := h.Comments.Delete(ctx, id); err != nil {
		respondError(ctx, w, mapLookupErr(err, "comment"))
		return
	}
	if err := h.Likes.DeleteForComment(ctx, id); err != nil {
		logger.Warn("failed to cascade comment likes", "commentId", id.Hex(), "error", err)
	}

	respond(ctx, w, http.StatusOK, nil, "comment deleted")
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
