package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaAsset references a file stored on the external media host.
type MediaAsset struct {
	PublicID string `bson:"publicId" json:"publicId"`
	URL      string `bson:"url" json:"url"`
}

// Empty reports whether the asset carries no usable reference. Callers must
// treat an empty asset as a failed or missing upload.
func (a MediaAsset) Empty() bool {
	return a.PublicID == "" && a.URL == ""
}

// User represents an account and channel on the platform.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username     string               `bson:"username" json:"username"`
	Email        string               `bson:"email" json:"email"`
	FullName     string               `bson:"fullName" json:"fullName"`
	Password     string               `bson:"password" json:"-"`
	Avatar       MediaAsset           `bson:"avatar" json:"avatar"`
	CoverImage   MediaAsset           `bson:"coverImage,omitempty" json:"coverImage"`
	WatchHistory []primitive.ObjectID `bson:"watchHistory,omitempty" json:"-"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Video is an uploaded video document owned by a user.
type Video struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VideoFile   MediaAsset         `bson:"videoFile" json:"videoFile"`
	Thumbnail   MediaAsset         `bson:"thumbnail" json:"thumbnail"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Duration    float64            `bson:"duration" json:"duration"`
	Views       int64              `bson:"views" json:"views"`
	IsPublished bool               `bson:"isPublished" json:"isPublished"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Comment is a user's comment on a video.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content" json:"content"`
	Video     primitive.ObjectID `bson:"video" json:"video"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Tweet is a short text post owned by a user.
type Tweet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content" json:"content"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Playlist groups an ordered collection of video references.
type Playlist struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Owner       primitive.ObjectID   `bson:"owner" json:"owner"`
	Videos      []primitive.ObjectID `bson:"videos" json:"videos"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PlaylistWithVideos is a playlist whose video references have been joined
// into full video documents.
type PlaylistWithVideos struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	Videos      []Video            `bson:"videoDocs" json:"videos"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Like records that a user liked exactly one of a video, comment, or tweet.
// The document's existence is the sole source of truth for the liked state.
type Like struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	LikedBy   primitive.ObjectID  `bson:"likedBy" json:"likedBy"`
	Video     *primitive.ObjectID `bson:"video,omitempty" json:"video,omitempty"`
	Comment   *primitive.ObjectID `bson:"comment,omitempty" json:"comment,omitempty"`
	Tweet     *primitive.ObjectID `bson:"tweet,omitempty" json:"tweet,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

// Subscription is a directed edge from a subscriber to a channel.
type Subscription struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Subscriber primitive.ObjectID `bson:"subscriber" json:"subscriber"`
	Channel    primitive.ObjectID `bson:"channel" json:"channel"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// ChannelUser is the public projection of a user document returned by
// subscription listings and joins.
type ChannelUser struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	FullName string             `bson:"fullName" json:"fullName"`
	Avatar   MediaAsset         `bson:"avatar" json:"avatar"`
}

// ChannelProfile is a user document enriched with subscription figures
// relative to the requesting actor.
type ChannelProfile struct {
	ID                primitive.ObjectID `bson:"_id" json:"id"`
	Username          string             `bson:"username" json:"username"`
	FullName          string             `bson:"fullName" json:"fullName"`
	Avatar            MediaAsset         `bson:"avatar" json:"avatar"`
	CoverImage        MediaAsset         `bson:"coverImage" json:"coverImage"`
	SubscriberCount   int64              `bson:"subscriberCount" json:"subscriberCount"`
	SubscribedToCount int64              `bson:"subscribedToCount" json:"subscribedToCount"`
	IsSubscribed      bool               `bson:"isSubscribed" json:"isSubscribed"`
}

// WatchedVideo is a watch-history entry joined with its owner's public
// profile.
type WatchedVideo struct {
	Video `bson:",inline"`
	OwnerDetails ChannelUser `bson:"ownerDetails" json:"ownerDetails"`
}

// ChannelStats aggregates dashboard figures for a channel owner. Like counts
// follow the "likes given" semantic: they count documents where the owner is
// the liker, split by target kind.
type ChannelStats struct {
	TotalVideos      int64 `bson:"totalVideos" json:"totalVideos"`
	TotalViews       int64 `bson:"totalViews" json:"totalViews"`
	TotalSubscribers int64 `bson:"totalSubscribers" json:"totalSubscribers"`
	VideoLikes       int64 `bson:"videoLikes" json:"videoLikes"`
	CommentLikes     int64 `bson:"commentLikes" json:"commentLikes"`
	TweetLikes       int64 `bson:"tweetLikes" json:"tweetLikes"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
