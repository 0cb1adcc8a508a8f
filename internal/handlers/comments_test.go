package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
)

func TestCommentCreateMissingVideo(t *testing.T) {
	comments := newCommentStoreStub()

	handler := CommentHandler{Comments: comments, Videos: newVideoStoreStub()}

	body := bytes.NewBufferString(`{"content":"nice video"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/comments/x", body)
	req = withActor(req, primitive.NewObjectID())
	req = withURLParams(req, map[string]string{"videoId": primitive.NewObjectID().Hex()})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusNotFound)
	}
	if comments.created != nil {
		t.Fatal("expected no comment write when the video is missing")
	}
}

func TestCommentCreateBlankContent(t *testing.T) {
	videos := newVideoStoreStub()
	comments := newCommentStoreStub()
	video := videos.add(models.Video{Owner: primitive.NewObjectID()})

	handler := CommentHandler{Comments: comments, Videos: videos}

	body := bytes.NewBufferString(`{"content":"   "}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/comments/x", body)
	req = withActor(req, primitive.NewObjectID())
	req = withURLParams(req, map[string]string{"videoId": video.ID.Hex()})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
	if comments.created != nil {
		t.Fatal("expected no comment write after validation failure")
	}
}

func TestCommentListForwardsPagination(t *testing.T) {
	videos := newVideoStoreStub()
	comments := newCommentStoreStub()
	video := videos.add(models.Video{Owner: primitive.NewObjectID()})
	comments.page = query.NewPage([]models.Comment{{Content: "first"}}, 12, query.Params{Page: 2, Limit: 5})

	handler := CommentHandler{Comments: comments, Videos: videos}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/comments/x?page=2&limit=5", nil)
	req = withURLParams(req, map[string]string{"videoId": video.ID.Hex()})
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	if comments.listParams.Page != 2 || comments.listParams.Limit != 5 {
		t.Fatalf("unexpected pagination: %+v", comments.listParams)
	}
	if comments.listedVideo != video.ID {
		t.Fatalf("unexpected video scope: %s", comments.listedVideo.Hex())
	}
}

func TestCommentDeleteCascadesLikes(t *testing.T) {
	comments := newCommentStoreStub()
	likes := newLikeStoreStub()
	owner := primitive.NewObjectID()
	comment := comments.add(models.Comment{Owner: owner})

	handler := CommentHandler{Comments: comments, Likes: likes}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/comments/c/x", nil)
	req = withActor(req, owner)
	req = withURLParams(req, map[string]string{"commentId": comment.ID.Hex()})
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	if len(likes.commentCascades) != 1 || likes.commentCascades[0] != comment.ID {
		t.Fatalf("expected like cascade for comment %s, got %v", comment.ID.Hex(), likes.commentCascades)
	}
}

func TestCommentUpdateOwnerGuard(t *testing.T) {
	comments := newCommentStoreStub()
	comment := comments.add(models.Comment{Owner: primitive.NewObjectID(), Content: "original"})

	handler := CommentHandler{Comments: comments}

	body := bytes.NewBufferString(`{"content":"hijacked"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/comments/c/x", body)
	req = withActor(req, primitive.NewObjectID())
	req = withURLParams(req, map[string]string{"commentId": comment.ID.Hex()})
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusForbidden)
	}
	if comments.comments[comment.ID].Content != "original" {
		t.Fatal("expected comment content to be unchanged")
	}
}
