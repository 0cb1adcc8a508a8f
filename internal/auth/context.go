package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ctxKey string

const actorKey ctxKey = "actor"

// WithActor stores the authenticated actor's id on the context. The actor is
// always threaded explicitly through the request context, never held in
// process-wide state.
func WithActor(ctx context.Context, id primitive.ObjectID) context.Context {
	return context.WithValue(ctx, actorKey, id)
}

// ActorFromContext retrieves the authenticated actor's id.
func ActorFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(actorKey).(primitive.ObjectID)
	return id, ok
}
