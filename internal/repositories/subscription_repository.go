package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/models"
)

// SubscriptionRepository exposes toggle-record access for channel
// subscriptions.
type SubscriptionRepository interface {
	// Toggle removes an existing {subscriber, channel} edge or creates one
	// when absent, returning the subscribed state after the call.
	Toggle(ctx context.Context, subscriber, channel primitive.ObjectID) (bool, error)
	Subscribers(ctx context.Context, channel primitive.ObjectID) ([]models.ChannelUser, error)
	SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID) ([]models.ChannelUser, error)
}

// StatsRepository computes dashboard aggregates for a channel owner.
type StatsRepository interface {
	ChannelStats(ctx context.Context, owner primitive.ObjectID) (models.ChannelStats, error)
}
