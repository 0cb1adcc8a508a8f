package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/apierror"
	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/repositories"
)

// PlaylistHandler implements playlist endpoints under /api/v1/playlists.
type PlaylistHandler struct {
	Playlists PlaylistStore
	Videos    VideoStore
	NowFunc   func() time.Time
}

type createPlaylistRequest struct {
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(ctx, w, err)
		return
	}

	now := h.now()
	playlist, err := h.Playlists.Create(ctx, models.Playlist{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Owner:       actor,
		Videos:      []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to create playlist", err))
		return
	}

	respond(ctx, w, http.StatusCreated, playlist, "playlist created")
}

// Get handles GET /api/v1/playlists/{playlistId} with video references
// joined into full documents.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathObjectID(r, "playlistId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	playlist, err := h.Playlists.WithVideos(ctx, id)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "playlist"))
		return
	}

	respond(ctx, w, http.StatusOK, playlist, "playlist")
}

// ListByUser handles GET /api/v1/playlists/user/{userId}.
func (h PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := pathObjectID(r, "userId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	playlists, err := h.Playlists.ListByOwner(ctx, userID)
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to list playlists", err))
		return
	}
	if playlists == nil {
		playlists = []models.PlaylistWithVideos{}
	}

	respond(ctx, w, http.StatusOK, playlists, "playlists")
}

// AddVideo handles PATCH /api/v1/playlists/add/{videoId}/{playlistId}.
// Adding a video that is already present is a conflict.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, videoID, err := h.ownedPlaylistAndVideo(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if containsID(playlist.Videos, videoID) {
		respondError(ctx, w, apierror.New(apierror.Conflict, "video already in playlist"))
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, mapLookupErr(err, "video"))
		return
	}

	updated, err := h.Playlists.AddVideo(ctx, playlist.ID, videoID)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "playlist"))
		return
	}

	respond(ctx, w, http.StatusOK, updated, "video added to playlist")
}

// RemoveVideo handles PATCH /api/v1/playlists/remove/{videoId}/{playlistId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, videoID, err := h.ownedPlaylistAndVideo(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if !containsID(playlist.Videos, videoID) {
		respondError(ctx, w, apierror.New(apierror.NotFound, "video not in playlist"))
		return
	}

	updated, err := h.Playlists.RemoveVideo(ctx, playlist.ID, videoID)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "playlist"))
		return
	}

	respond(ctx, w, http.StatusOK, updated, "video removed from playlist")
}

type updatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Update handles PATCH /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, err := h.ownedPlaylist(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req updatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
		return
	}

	var update repositories.PlaylistUpdate
	if name := strings.TrimSpace(req.Name); name != "" {
		update.Name = &name
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		update.Description = &description
	}
	if update.Name == nil && update.Description == nil {
		respondError(ctx, w, apierror.New(apierror.Validation, "nothing to update"))
		return
	}

	updated, err := h.Playlists.Update(ctx, playlist.ID, update)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "playlist"))
		return
	}

	respond(ctx, w, http.StatusOK, updated, "playlist updated")
}

// Delete handles DELETE /api/v1/playlists/{playlistId}. Videos referenced by
// the playlist are untouched.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, err := h.ownedPlaylist(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Playlists.Delete(ctx, playlist.ID); err != nil {
		respondError(ctx, w, mapLookupErr(err, "playlist"))
		return
	}

	respond(ctx, w, http.StatusOK, nil, "playlist deleted")
}

func (h PlaylistHandler) ownedPlaylist(r *http.Request) (models.Playlist, error) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		return models.Playlist{}, err
	}

	id, err := pathObjectID(r, "playlistId")
	if err != nil {
		return models.Playlist{}, err
	}

	playlist, err := h.Playlists.FindByID(ctx, id)
	if err != nil {
		return models.Playlist{}, mapLookupErr(err, "playlist")
	}
	if playlist.Owner != actor {
		return models.Playlist{}, apierror.New(apierror.Authorization, "only the owner may modify this playlist")
	}
	return playlist, nil
}

func (h PlaylistHandler) ownedPlaylistAndVideo(r *http.Request) (models.Playlist, primitive.ObjectID, error) {
	playlist, err := h.ownedPlaylist(r)
	if err != nil {
		return models.Playlist{}, primitive.NilObjectID, err
	}

	videoID, err := pathObjectID(r, "videoId")
	if err != nil {
		return models.Playlist{}, primitive.NilObjectID, err
	}
	return playlist, videoID, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
