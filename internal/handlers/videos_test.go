package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
)

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for name, filename := range files {
		part, err := writer.CreateFormFile(name, filename)
		if err != nil {
			t.Fatalf("create file part %s: %v", name, err)
		}
		if _, err := io.WriteString(part, "payload-bytes"); err != nil {
			t.Fatalf("write file part %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestVideoPublishSuccess(t *testing.T) {
	videos := newVideoStoreStub()
	mediaStore := &mediaStoreStub{}
	actor := primitive.NewObjectID()

	handler := VideoHandler{
		Videos:  videos,
		Media:   mediaStore,
		Prober:  proberStub{duration: 42.5},
		TempDir: t.TempDir(),
		NowFunc: func() time.Time {
			return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
		},
	}

	body, contentType := multipartBody(t,
		map[string]string{"title": "First upload", "description": "A description"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req = withActor(req, actor)
	rec := httptest.NewRecorder()

	handler.Publish(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusCreated)
	}
	if videos.created == nil {
		t.Fatal("expected a video to be created")
	}
	if videos.created.Duration != 42.5 {
		t.Fatalf("unexpected duration: %v", videos.created.Duration)
	}
	if !videos.created.IsPublished {
		t.Fatal("expected new videos to be published")
	}
	if videos.created.Owner != actor {
		t.Fatalf("unexpected owner: %s", videos.created.Owner.Hex())
	}
	if len(mediaStore.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(mediaStore.uploads))
	}
}

func TestVideoPublishUploadFailureAborts(t *testing.T) {
	videos := newVideoStoreStub()
	mediaStore := &mediaStoreStub{uploadErr: errors.New("bucket unreachable")}
	tempDir := t.TempDir()

	handler := VideoHandler{
		Videos:  videos,
		Media:   mediaStore,
		Prober:  proberStub{},
		TempDir: tempDir,
	}

	body, contentType := multipartBody(t,
		map[string]string{"title": "Doomed", "description": "Never lands"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req = withActor(req, primitive.NewObjectID())
	rec := httptest.NewRecorder()

	handler.Publish(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadGateway)
	}
	if videos.created != nil {
		t.Fatal("expected no video document after upload failure")
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	var leftover []string
	for _, entry := range entries {
		leftover = append(leftover, filepath.Join(tempDir, entry.Name()))
	}
	if len(leftover) != 0 {
		t.Fatalf("expected temp files to be released, found %v", leftover)
	}
}

func TestVideoPublishValidationShortCircuit(t *testing.T) {
	videos := newVideoStoreStub()
	mediaStore := &mediaStoreStub{}

	handler := VideoHandler{Videos: videos, Media: mediaStore, TempDir: t.TempDir()}

	body, contentType := multipartBody(t,
		map[string]string{"title": "   ", "description": "desc"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req = withActor(req, primitive.NewObjectID())
	rec := httptest.NewRecorder()

	handler.Publish(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
	if len(mediaStore.uploads) != 0 {
		t.Fatal("expected no uploads after validation failure")
	}
	if videos.created != nil {
		t.Fatal("expected no write after validation failure")
	}
}

func TestVideoListPassesSearchOptions(t *testing.T) {
	videos := newVideoStoreStub()
	videos.searchPage = query.NewPage([]models.Video{{Title: "match"}}, 12, query.Params{Page: 2, Limit: 5})

	handler := VideoHandler{Videos: videos}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?page=2&limit=5&query=cats&sortBy=views&sortType=asc", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	opts := videos.searchOpts
	if opts == nil {
		t.Fatal("expected search to be invoked")
	}
	if opts.Query != "cats" || opts.SortBy != "views" || opts.Descending {
		t.Fatalf("unexpected search options: %+v", opts)
	}
	if opts.Pagination.Page != 2 || opts.Pagination.Limit != 5 {
		t.Fatalf("unexpected pagination: %+v", opts.Pagination)
	}
}

func TestVideoListRejectsBadUserID(t *testing.T) {
	handler := VideoHandler{Videos: newVideoStoreStub()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?userId=not-an-id", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestVideoGetRecordsWatchAndViews(t *testing.T) {
	videos := newVideoStoreStub()
	users := newUserStoreStub()
	video := videos.add(models.Video{Title: "watched", Owner: primitive.NewObjectID()})
	actor := primitive.NewObjectID()

	handler := VideoHandler{Videos: videos, Users: users}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+video.ID.Hex(), nil)
	req = withActor(req, actor)
	req = withURLParams(req, map[string]string{"videoId": video.ID.Hex()})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	if len(videos.viewBumps) != 1 || videos.viewBumps[0] != video.ID {
		t.Fatalf("expected one view bump for %s, got %v", video.ID.Hex(), videos.viewBumps)
	}
	if len(users.watched) != 1 || users.watched[0] != video.ID {
		t.Fatalf("expected watch history entry for %s, got %v", video.ID.Hex(), users.watched)
	}
}

func TestVideoUpdateOwnerGuard(t *testing.T) {
	videos := newVideoStoreStub()
	owner := primitive.NewObjectID()
	video := videos.add(models.Video{Title: "guarded", Owner: owner})

	handler := VideoHandler{Videos: videos, Media: &mediaStoreStub{}, TempDir: t.TempDir()}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/"+video.ID.Hex(), bytes.NewBufferString(`{"title":"new title"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withActor(req, primitive.NewObjectID())
	req = withURLParams(req, map[string]string{"videoId": video.ID.Hex()})
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusForbidden)
	}
	if videos.updated != nil {
		t.Fatal("expected no update after owner guard rejection")
	}
}

func TestVideoDeleteCascades(t *testing.T) {
	videos := newVideoStoreStub()
	comments := newCommentStoreStub()
	likes := newLikeStoreStub()
	mediaStore := &mediaStoreStub{}
	owner := primitive.NewObjectID()

	video := videos.add(models.Video{
		Owner:     owner,
		VideoFile: models.MediaAsset{PublicID: "vid-key", URL: "u"},
		Thumbnail: models.MediaAsset{PublicID: "thumb-key", URL: "u"},
	})
	c1 := comments.add(models.Comment{Video: video.ID, Owner: primitive.NewObjectID()})
	c2 := comments.add(models.Comment{Video: video.ID, Owner: primitive.NewObjectID()})

	handler := VideoHandler{Videos: videos, Comments: comments, Likes: likes, Media: mediaStore}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/videos/"+video.ID.Hex(), nil)
	req = withActor(req, owner)
	req = withURLParams(req, map[string]string{"videoId": video.ID.Hex()})
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	if len(comments.cascadedIDs) != 2 {
		t.Fatalf("expected 2 cascaded comments, got %d", len(comments.cascadedIDs))
	}
	if len(likes.videoCascades) != 1 || likes.videoCascades[0] != video.ID {
		t.Fatalf("expected like cascade for video %s", video.ID.Hex())
	}
	if len(likes.cascadeComments) != 2 {
		t.Fatalf("expected comment ids %s and %s in like cascade, got %v", c1.ID.Hex(), c2.ID.Hex(), likes.cascadeComments)
	}
	if len(mediaStore.deleted) != 2 {
		t.Fatalf("expected both media assets released, got %v", mediaStore.deleted)
	}
}

func TestVideoTogglePublish(t *testing.T) {
	videos := newVideoStoreStub()
	owner := primitive.NewObjectID()
	video := videos.add(models.Video{Owner: owner, IsPublished: true})

	handler := VideoHandler{Videos: videos}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/toggle/publish/"+video.ID.Hex(), nil)
	req = withActor(req, owner)
	req = withURLParams(req, map[string]string{"videoId": video.ID.Hex()})
	rec := httptest.NewRecorder()

	handler.TogglePublish(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	if videos.videos[video.ID].IsPublished {
		t.Fatal("expected publish flag to flip to false")
	}
}
