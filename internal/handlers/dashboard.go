package handlers

import (
	"net/http"

	"github.com/phsics/BackendYouTube/internal/apierror"
	"github.com/phsics/BackendYouTube/internal/logging"
	"github.com/phsics/BackendYouTube/internal/models"
)

// DashboardHandler implements channel dashboard endpoints under
// /api/v1/dashboard.
type DashboardHandler struct {
	Stats  StatsStore
	Videos VideoStore
}

// ChannelStats handles GET /api/v1/dashboard/stats.
func (h DashboardHandler) ChannelStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	ctx, span := logging.StartSpan(ctx, "dashboard.stats")
	stats, err := h.Stats.ChannelStats(ctx, actor)
	span.End()
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to compute channel stats", err))
		return
	}

	respond(ctx, w, http.StatusOK, stats, "channel stats")
}

// ChannelVideos handles GET /api/v1/dashboard/videos.
func (h DashboardHandler) ChannelVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	videos, err := h.Videos.ListByOwner(ctx, actor)
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to list channel videos", err))
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}

	respond(ctx, w, http.StatusOK, videos, "channel videos")
}
