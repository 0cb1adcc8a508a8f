package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/apierror"
	"github.com/phsics/BackendYouTube/internal/auth"
)

// pathObjectID parses a hex ObjectID path parameter.
func pathObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apierror.Newf(apierror.Validation, "invalid %s", name)
	}
	return id, nil
}

// requireActor returns the authenticated actor. The auth middleware always
// sets it on protected routes; a missing actor is treated as forbidden.
func requireActor(ctx context.Context) (primitive.ObjectID, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok || actor.IsZero() {
		return primitive.NilObjectID, apierror.New(apierror.Authorization, "authentication required")
	}
	return actor, nil
}
