package handlers

import (
	"net/http"

	"github.com/phsics/BackendYouTube/internal/apierror"
	"github.com/phsics/BackendYouTube/internal/models"
)

// SubscriptionHandler implements channel subscription endpoints under
// /api/v1/subscriptions.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Users         UserStore
}

type subscribeResponse struct {
	Subscribed bool `json:"subscribed"`
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	channel, err := pathObjectID(r, "channelId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if channel == actor {
		respondError(ctx, w, apierror.New(apierror.Validation, "cannot subscribe to your own channel"))
		return
	}

	if _, err := h.Users.FindByID(ctx, channel); err != nil {
		respondError(ctx, w, mapLookupErr(err, "channel"))
		return
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, actor, channel)
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to toggle subscription", err))
		return
	}

	respond(ctx, w, http.StatusOK, subscribeResponse{Subscribed: subscribed}, "subscription toggled")
}

// Subscribers handles GET /api/v1/subscriptions/c/{channelId}.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channel, err := pathObjectID(r, "channelId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	subscribers, err := h.Subscriptions.Subscribers(ctx, channel)
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to list subscribers", err))
		return
	}
	if subscribers == nil {
		subscribers = []models.ChannelUser{}
	}

	respond(ctx, w, http.StatusOK, subscribers, "subscribers")
}

// SubscribedChannels handles GET /api/v1/subscriptions/u/{subscriberId}.
func (h SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriber, err := pathObjectID(r, "subscriberId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	channels, err := h.Subscriptions.SubscribedChannels(ctx, subscriber)
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to list subscribed channels", err))
		return
	}
	if channels == nil {
		channels = []models.ChannelUser{}
	}

	respond(ctx, w, http.StatusOK, channels, "subscribed channels")
}
