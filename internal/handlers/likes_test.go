package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/models"
)

func toggleVideoLike(t *testing.T, handler LikeHandler, actor, videoID primitive.ObjectID) (int, toggleResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/"+videoID.Hex(), nil)
	req = withActor(req, actor)
	req = withURLParams(req, map[string]string{"videoId": videoID.Hex()})
	rec := httptest.NewRecorder()

	handler.ToggleVideo(rec, req)

	var resp toggleResponse
	if rec.Code == http.StatusOK {
		env := decodeEnvelope(t, rec.Body)
		if err := json.Unmarshal(env.Data, &resp); err != nil {
			t.Fatalf("decode toggle response: %v", err)
		}
	}
	return rec.Code, resp
}

func TestToggleVideoLikePairRestoresState(t *testing.T) {
	videos := newVideoStoreStub()
	likes := newLikeStoreStub()
	video := videos.add(models.Video{Owner: primitive.NewObjectID()})
	actor := primitive.NewObjectID()

	handler := LikeHandler{Likes: likes, Videos: videos}

	status, first := toggleVideoLike(t, handler, actor, video.ID)
	if status != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", status, http.StatusOK)
	}
	if !first.Liked {
		t.Fatal("expected first toggle to like")
	}

	status, second := toggleVideoLike(t, handler, actor, video.ID)
	if status != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", status, http.StatusOK)
	}
	if second.Liked {
		t.Fatal("expected second toggle to unlike")
	}
	if len(likes.likes) != 0 {
		t.Fatalf("expected no like records after a toggle pair, got %d", len(likes.likes))
	}
}

func TestToggleLikeMissingTarget(t *testing.T) {
	handler := LikeHandler{Likes: newLikeStoreStub(), Videos: newVideoStoreStub()}

	missing := primitive.NewObjectID()
	status, _ := toggleVideoLike(t, handler, primitive.NewObjectID(), missing)
	if status != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", status, http.StatusNotFound)
	}
}

func TestToggleCommentLike(t *testing.T) {
	comments := newCommentStoreStub()
	likes := newLikeStoreStub()
	comment := comments.add(models.Comment{Owner: primitive.NewObjectID()})

	handler := LikeHandler{Likes: likes, Comments: comments}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/c/"+comment.ID.Hex(), nil)
	req = withActor(req, primitive.NewObjectID())
	req = withURLParams(req, map[string]string{"commentId": comment.ID.Hex()})
	rec := httptest.NewRecorder()

	handler.ToggleComment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	if len(likes.likes) != 1 {
		t.Fatalf("expected one like record, got %d", len(likes.likes))
	}
}

func TestLikedVideosEmptyList(t *testing.T) {
	handler := LikeHandler{Likes: newLikeStoreStub()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos", nil)
	req = withActor(req, primitive.NewObjectID())
	rec := httptest.NewRecorder()

	handler.LikedVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	env := decodeEnvelope(t, rec.Body)
	var videos []models.Video
	if err := json.Unmarshal(env.Data, &videos); err != nil {
		t.Fatalf("decode liked videos: %v", err)
	}
	if videos == nil {
		t.Fatal("expected empty list, not null")
	}
}
