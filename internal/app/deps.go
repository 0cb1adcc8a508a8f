package app

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phsics/BackendYouTube/internal/auth"
	"github.com/phsics/BackendYouTube/internal/config"
	"github.com/phsics/BackendYouTube/internal/handlers"
	"github.com/phsics/BackendYouTube/internal/media"
	"github.com/phsics/BackendYouTube/internal/middleware"
	"github.com/phsics/BackendYouTube/internal/repositories"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers.
func buildDependencies(ctx context.Context, database *mongo.Database, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, error) {
	mediaStore, err := media.NewS3Store(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	sessions := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, repositories.NewMongoSessionStore(database))

	return handlers.Dependencies{
		Users:         repositories.NewMongoUserRepository(database),
		Videos:        repositories.NewMongoVideoRepository(database),
		Comments:      repositories.NewMongoCommentRepository(database),
		Tweets:        repositories.NewMongoTweetRepository(database),
		Playlists:     repositories.NewMongoPlaylistRepository(database),
		Likes:         repositories.NewMongoLikeRepository(database),
		Subscriptions: repositories.NewMongoSubscriptionRepository(database),
		Stats:         repositories.NewMongoStatsRepository(database),
		Sessions:      sessions,

		Media:   mediaStore,
		Prober:  media.NewFFProbe(cfg.FFProbePath, cfg.FFProbeTimeout),
		TempDir: cfg.TempDir,

		Verifier: sessions.Verify,
		Limiter:  middleware.NewClientRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		Logger:   logger,
	}, nil
}
