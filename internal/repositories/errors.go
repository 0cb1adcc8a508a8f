package repositories

import "errors"

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrConflict indicates the attempted write would violate a uniqueness constraint.
	ErrConflict = errors.New("document conflict")
)

// Collection names shared by the Mongo repositories and index bootstrap.
const (
	CollUsers         = "users"
	CollVideos        = "videos"
	CollComments      = "comments"
	CollTweets        = "tweets"
	CollPlaylists     = "playlists"
	CollLikes         = "likes"
	CollSubscriptions = "subscriptions"
	CollSessions      = "sessions"
)
