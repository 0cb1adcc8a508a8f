package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/phsics/BackendYouTube/internal/media"
	"github.com/phsics/BackendYouTube/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Playlists     PlaylistStore
	Likes         LikeStore
	Subscriptions SubscriptionStore
	Stats         StatsStore
	Sessions      SessionManager

	Media   media.Store
	Prober  media.DurationProber
	TempDir string

	Verifier TokenVerifierFunc
	Limiter  middleware.RateLimiter
	Logger   *slog.Logger
	NowFunc  func() time.Time
}

// TokenVerifierFunc adapts a plain function to middleware.TokenVerifier.
type TokenVerifierFunc func(accessToken string) (string, error)

// Verify implements middleware.TokenVerifier.
func (f TokenVerifierFunc) Verify(accessToken string) (string, error) {
	return f(accessToken)
}

// NewRouter assembles the full route tree with its middleware chain.
func NewRouter(deps Dependencies) http.Handler {
	users := UserHandler{Users: deps.Users, Sessions: deps.Sessions, Media: deps.Media, TempDir: deps.TempDir, NowFunc: deps.NowFunc}
	videos := VideoHandler{Videos: deps.Videos, Comments: deps.Comments, Likes: deps.Likes, Users: deps.Users, Media: deps.Media, Prober: deps.Prober, TempDir: deps.TempDir, NowFunc: deps.NowFunc}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos, Likes: deps.Likes, NowFunc: deps.NowFunc}
	tweets := TweetHandler{Tweets: deps.Tweets, Likes: deps.Likes, NowFunc: deps.NowFunc}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Videos: deps.Videos, NowFunc: deps.NowFunc}
	likes := LikeHandler{Likes: deps.Likes, Videos: deps.Videos, Comments: deps.Comments, Tweets: deps.Tweets}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions, Users: deps.Users}
	dashboard := DashboardHandler{Stats: deps.Stats, Videos: deps.Videos}
	health := HealthHandler{}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.Limiter != nil {
		r.Use(middleware.Throttle(deps.Limiter))
	}

	r.Get("/healthz", health.Handle)

	requireAuth := middleware.RequireAuth(deps.Verifier)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", users.Register)
			r.Post("/login", users.Login)
			r.Post("/refresh-token", users.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", users.Logout)
				r.Post("/change-password", users.ChangePassword)
				r.Get("/current-user", users.CurrentUser)
				r.Patch("/update-account", users.UpdateAccount)
				r.Patch("/avatar", users.UpdateAvatar)
				r.Patch("/cover-image", users.UpdateCoverImage)
				r.Get("/c/{username}", users.Channel)
				r.Get("/history", users.History)
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", videos.Publish)
			r.Get("/", videos.List)
			r.Get("/{videoId}", videos.Get)
			r.Patch("/{videoId}", videos.Update)
			r.Delete("/{videoId}", videos.Delete)
			r.Patch("/toggle/publish/{videoId}", videos.TogglePublish)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/{videoId}", comments.Create)
			r.Get("/{videoId}", comments.List)
			r.Patch("/c/{commentId}", comments.Update)
			r.Delete("/c/{commentId}", comments.Delete)
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", tweets.Create)
			r.Get("/user/{userId}", tweets.ListByUser)
			r.Patch("/{tweetId}", tweets.Update)
			r.Delete("/{tweetId}", tweets.Delete)
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", playlists.Create)
			r.Get("/{playlistId}", playlists.Get)
			r.Get("/user/{userId}", playlists.ListByUser)
			r.Patch("/add/{videoId}/{playlistId}", playlists.AddVideo)
			r.Patch("/remove/{videoId}/{playlistId}", playlists.RemoveVideo)
			r.Patch("/{playlistId}", playlists.Update)
			r.Delete("/{playlistId}", playlists.Delete)
		})

		r.Route("/likes", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/toggle/v/{videoId}", likes.ToggleVideo)
			r.Post("/toggle/c/{commentId}", likes.ToggleComment)
			r.Post("/toggle/t/{tweetId}", likes.ToggleTweet)
			r.Get("/videos", likes.LikedVideos)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/c/{channelId}", subscriptions.Toggle)
			r.Get("/c/{channelId}", subscriptions.Subscribers)
			r.Get("/u/{subscriberId}", subscriptions.SubscribedChannels)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/stats", dashboard.ChannelStats)
			r.Get("/videos", dashboard.ChannelVideos)
		})
	})

	return r
}
