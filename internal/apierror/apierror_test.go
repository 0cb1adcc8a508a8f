package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Authorization, http.StatusForbidden},
		{Conflict, http.StatusConflict},
		{Upstream, http.StatusBadGateway},
		{Internal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := StatusOf(New(tc.kind, "boom")); got != tc.want {
			t.Fatalf("kind %d: got status %d want %d", tc.kind, got, tc.want)
		}
	}
}

func TestUntaggedErrorDefaultsToInternal(t *testing.T) {
	err := errors.New("database exploded")
	if got := StatusOf(err); got != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got %d", got)
	}
	if got := MessageOf(err); got != "internal server error" {
		t.Fatalf("expected generic message, got %q", got)
	}
}

func TestWrappedErrorKeepsKindThroughChain(t *testing.T) {
	cause := errors.New("no documents")
	tagged := Wrap(NotFound, "video not found", cause)
	wrapped := fmt.Errorf("handler: %w", tagged)

	if got := KindOf(wrapped); got != NotFound {
		t.Fatalf("unexpected kind: got %d want %d", got, NotFound)
	}
	if got := MessageOf(wrapped); got != "video not found" {
		t.Fatalf("unexpected message: %q", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected cause to survive wrapping")
	}
}

func TestMessageDoesNotLeakCause(t *testing.T) {
	err := Wrap(Internal, "failed to save video", errors.New("connection to 10.0.0.5 refused"))
	if got := MessageOf(err); got != "failed to save video" {
		t.Fatalf("unexpected client message: %q", got)
	}
}
