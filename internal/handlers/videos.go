package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/apierror"
	"github.com/phsics/BackendYouTube/internal/logging"
	"github.com/phsics/BackendYouTube/internal/media"
	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
	"github.com/phsics/BackendYouTube/internal/repositories"
)

// VideoHandler implements video upload, search, and lifecycle endpoints.
type VideoHandler struct {
	Videos   VideoStore
	Comments CommentStore
	Likes    LikeStore
	Users    UserStore
	Media    media.Store
	Prober   media.DurationProber
	TempDir  string
	NowFunc  func() time.Time
}

type publishVideoRequest struct {
	Title       string `validate:"required,notblank"`
	Description string `validate:"required,notblank"`
}

// Publish handles POST /api/v1/videos. Both files are required; the duration
// is probed from the local copy before it is shipped to the object store.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid multipart payload", err))
		return
	}

	req := publishVideoRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if err := validateStruct(req); err != nil {
		respondError(ctx, w, err)
		return
	}

	videoPath, err := saveMultipartFile(r, "videoFile", h.TempDir)
	if err != nil {
		if errors.Is(err, errNoFile) {
			respondError(ctx, w, apierror.New(apierror.Validation, "videoFile is required"))
			return
		}
		respondError(ctx, w, err)
		return
	}

	thumbPath, err := saveMultipartFile(r, "thumbnail", h.TempDir)
	if err != nil {
		removeTemp(ctx, videoPath)
		if errors.Is(err, errNoFile) {
			respondError(ctx, w, apierror.New(apierror.Validation, "thumbnail is required"))
			return
		}
		respondError(ctx, w, err)
		return
	}

	// Probe before upload: the media store removes the local file.
	var duration float64
	if h.Prober != nil {
		duration, err = h.Prober.Duration(ctx, videoPath)
		if err != nil {
			logger.Warn("duration probe failed", "path", videoPath, "error", err)
			duration = 0
		}
	}

	videoAsset, err := h.Media.Upload(ctx, videoPath)
	if err != nil || videoAsset.Empty() {
		removeTemp(ctx, thumbPath)
		respondError(ctx, w, apierror.Wrap(apierror.Upstream, "video upload failed", err))
		return
	}

	thumbAsset, err := h.Media.Upload(ctx, thumbPath)
	if err != nil || thumbAsset.Empty() {
		h.Media.Delete(ctx, videoAsset.PublicID)
		respondError(ctx, w, apierror.Wrap(apierror.Upstream, "thumbnail upload failed", err))
		return
	}

	now := h.now()
	video, err := h.Videos.Create(ctx, models.Video{
		VideoFile:   models.MediaAsset{PublicID: videoAsset.PublicID, URL: videoAsset.URL},
		Thumbnail:   models.MediaAsset{PublicID: thumbAsset.PublicID, URL: thumbAsset.URL},
		Title:       req.Title,
		Description: req.Description,
		Duration:    duration,
		IsPublished: true,
		Owner:       actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.Media.Delete(ctx, videoAsset.PublicID)
		h.Media.Delete(ctx, thumbAsset.PublicID)
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to save video", err))
		return
	}

	logger.Info("video published", "videoId", video.ID.Hex(), "owner", actor.Hex())
	respond(ctx, w, http.StatusCreated, video, "video published")
}

// List handles GET /api/v1/videos with page, limit, query, sortBy, sortType,
// and userId parameters.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	opts := repositories.VideoSearchOptions{
		Query:      strings.TrimSpace(q.Get("query")),
		SortBy:     q.Get("sortBy"),
		Descending: q.Get("sortType") != "asc",
		Pagination: query.ParsePagination(q.Get("page"), q.Get("limit")),
	}

	if raw := q.Get("userId"); raw != "" {
		owner, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(ctx, w, apierror.New(apierror.Validation, "invalid userId"))
			return
		}
		opts.Owner = owner
	}

	page, err := h.Videos.Search(ctx, opts)
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to search videos", err))
		return
	}

	respond(ctx, w, http.StatusOK, page, "videos")
}

// Get handles GET /api/v1/videos/{videoId}. Viewing bumps the view counter
// and records the video in the actor's watch history.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	id, err := pathObjectID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Videos.IncrementViews(ctx, id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.Warn("failed to count view", "videoId", id.Hex(), "error", err)
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "video"))
		return
	}

	if err := h.Users.RecordWatch(ctx, actor, id); err != nil {
		logger.Warn("failed to record watch history", "videoId", id.Hex(), "error", err)
	}

	respond(ctx, w, http.StatusOK, video, "video")
}

// Update handles PATCH /api/v1/videos/{videoId}. Multipart bodies may carry
// a replacement thumbnail alongside the text fields; JSON bodies carry text
// only.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	id, err := pathObjectID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "video"))
		return
	}
	if video.Owner != actor {
		respondError(ctx, w, apierror.New(apierror.Authorization, "only the owner may update this video"))
		return
	}

	var update repositories.VideoUpdate
	var thumbPath string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid multipart payload", err))
			return
		}
		if title := strings.TrimSpace(r.FormValue("title")); title != "" {
			update.Title = &title
		}
		if description := strings.TrimSpace(r.FormValue("description")); description != "" {
			update.Description = &description
		}
		thumbPath, err = saveMultipartFile(r, "thumbnail", h.TempDir)
		if err != nil && !errors.Is(err, errNoFile) {
			respondError(ctx, w, err)
			return
		}
	} else {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
			return
		}
		if title := strings.TrimSpace(req.Title); title != "" {
			update.Title = &title
		}
		if description := strings.TrimSpace(req.Description); description != "" {
			update.Description = &description
		}
	}

	if update.Title == nil && update.Description == nil && thumbPath == "" {
		respondError(ctx, w, apierror.New(apierror.Validation, "nothing to update"))
		return
	}

	oldThumb := video.Thumbnail
	if thumbPath != "" {
		asset, err := h.Media.Upload(ctx, thumbPath)
		if err != nil || asset.Empty() {
			respondError(ctx, w, apierror.Wrap(apierror.Upstream, "thumbnail upload failed", err))
			return
		}
		update.Thumbnail = &models.MediaAsset{PublicID: asset.PublicID, URL: asset.URL}
	}

	updated, err := h.Videos.Update(ctx, id, update)
	if err != nil {
		if update.Thumbnail != nil {
			h.Media.Delete(ctx, update.Thumbnail.PublicID)
		}
		respondError(ctx, w, mapLookupErr(err, "video"))
		return
	}

	if update.Thumbnail != nil && !oldThumb.Empty() {
		h.Media.Delete(ctx, oldThumb.PublicID)
	}

	respond(ctx, w, http.StatusOK, updated, "video updated")
}

// Delete handles DELETE /api/v1/videos/{videoId}, cascading comments and
// likes and releasing the stored media assets best-effort.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	id, err := pathObjectID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "video"))
		return
	}
	if video.Owner != actor {
		respondError(ctx, w, apierror.New(apierror.Authorization, "only the owner may delete this video"))
		return
	}

	if err := h.Videos.Delete(ctx, id); err != nil {
		respondError(ctx, w, mapLookupErr(err, "video"))
		return
	}

	commentIDs, err := h.Comments.DeleteByVideo(ctx, id)
	if err != nil {
		logger.Warn("failed to cascade comments", "videoId", id.Hex(), "error", err)
	}
	if err := h.Likes.DeleteForVideo(ctx, id, commentIDs); err != nil {
		logger.Warn("failed to cascade likes", "videoId", id.Hex(), "error", err)
	}

	h.Media.Delete(ctx, video.VideoFile.PublicID)
	if !video.Thumbnail.Empty() {
		h.Media.Delete(ctx, video.Thumbnail.PublicID)
	}

	logger.Info("video deleted", "videoId", id.Hex(), "owner", actor.Hex())
	respond(ctx, w, http.StatusOK, nil, "video deleted")
}

// TogglePublish handles PATCH /api/v1/videos/toggle/publish/{videoId}.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	id, err := pathObjectID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "video"))
		return
	}
	if video.Owner != actor {
		respondError(ctx, w, apierror.New(apierror.Authorization, "only the owner may change publish state"))
		return
	}

	toggled, err := h.Videos.TogglePublish(ctx, id)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "video"))
		return
	}

	respond(ctx, w, http.StatusOK, toggled, "publish state toggled")
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
