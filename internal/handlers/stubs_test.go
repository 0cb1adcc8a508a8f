package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phsics/BackendYouTube/internal/auth"
	"github.com/phsics/BackendYouTube/internal/media"
	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
	"github.com/phsics/BackendYouTube/internal/repositories"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func decodeEnvelope(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	return env
}

func withActor(r *http.Request, actor primitive.ObjectID) *http.Request {
	return r.WithContext(auth.WithActor(r.Context(), actor))
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type userStoreStub struct {
	users       map[primitive.ObjectID]models.User
	created     *models.User
	createErr   error
	watched     []primitive.ObjectID
	watchErr    error
	passwordSet string
	profile     models.ChannelProfile
	profileErr  error
	history     []models.WatchedVideo
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{users: make(map[primitive.ObjectID]models.User)}
}

func (s *userStoreStub) Create(_ context.Context, user models.User) (models.User, error) {
	if s.createErr != nil {
		return models.User{}, s.createErr
	}
	user.ID = primitive.NewObjectID()
	s.created = &user
	s.users[user.ID] = user
	return user, nil
}

func (s *userStoreStub) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *userStoreStub) FindByLogin(_ context.Context, identifier string) (models.User, error) {
	for _, user := range s.users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *userStoreStub) UpdateAccount(_ context.Context, id primitive.ObjectID, update repositories.AccountUpdate) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	// Mirrors the unique email index.
	for otherID, other := range s.users {
		if otherID != id && other.Email == update.Email {
			return models.User{}, repositories.ErrConflict
		}
	}
	user.FullName = update.FullName
	user.Email = update.Email
	s.users[id] = user
	return user, nil
}

func (s *userStoreStub) UpdateAvatar(_ context.Context, id primitive.ObjectID, asset models.MediaAsset) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	user.Avatar = asset
	s.users[id] = user
	return user, nil
}

func (s *userStoreStub) UpdateCoverImage(_ context.Context, id primitive.ObjectID, asset models.MediaAsset) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	user.CoverImage = asset
	s.users[id] = user
	return user, nil
}

func (s *userStoreStub) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = passwordHash
	s.users[id] = user
	s.passwordSet = passwordHash
	return nil
}

func (s *userStoreStub) ChannelProfile(_ context.Context, username string, _ primitive.ObjectID) (models.ChannelProfile, error) {
	if s.profileErr != nil {
		return models.ChannelProfile{}, s.profileErr
	}
	return s.profile, nil
}

func (s *userStoreStub) RecordWatch(_ context.Context, _, videoID primitive.ObjectID) error {
	if s.watchErr != nil {
		return s.watchErr
	}
	s.watched = append(s.watched, videoID)
	return nil
}

func (s *userStoreStub) WatchHistory(_ context.Context, _ primitive.ObjectID) ([]models.WatchedVideo, error) {
	return s.history, nil
}

type videoStoreStub struct {
	videos      map[primitive.ObjectID]models.Video
	created     *models.Video
	createErr   error
	updated     *repositories.VideoUpdate
	deleted     []primitive.ObjectID
	viewBumps   []primitive.ObjectID
	searchOpts  *repositories.VideoSearchOptions
	searchPage  query.Page[models.Video]
	searchErr   error
	ownerVideos []models.Video
}

func newVideoStoreStub() *videoStoreStub {
	return &videoStoreStub{videos: make(map[primitive.ObjectID]models.Video)}
}

func (s *videoStoreStub) add(video models.Video) models.Video {
	if video.ID.IsZero() {
		video.ID = primitive.NewObjectID()
	}
	s.videos[video.ID] = video
	return video
}

func (s *videoStoreStub) Create(_ context.Context, video models.Video) (models.Video, error) {
	if s.createErr != nil {
		return models.Video{}, s.createErr
	}
	video.ID = primitive.NewObjectID()
	s.created = &video
	s.videos[video.ID] = video
	return video, nil
}

func (s *videoStoreStub) FindByID(_ context.Context, id primitive.ObjectID) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *videoStoreStub) Update(_ context.Context, id primitive.ObjectID, update repositories.VideoUpdate) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	s.updated = &update
	if update.Title != nil {
		video.Title = *update.Title
	}
	if update.Description != nil {
		video.Description = *update.Description
	}
	if update.Thumbnail != nil {
		video.Thumbnail = *update.Thumbnail
	}
	s.videos[id] = video
	return video, nil
}

func (s *videoStoreStub) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *videoStoreStub) TogglePublish(_ context.Context, id primitive.ObjectID) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	video.IsPublished = !video.IsPublished
	s.videos[id] = video
	return video, nil
}

func (s *videoStoreStub) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	s.videos[id] = video
	s.viewBumps = append(s.viewBumps, id)
	return nil
}

func (s *videoStoreStub) Search(_ context.Context, opts repositories.VideoSearchOptions) (query.Page[models.Video], error) {
	s.searchOpts = &opts
	if s.searchErr != nil {
		return query.Page[models.Video]{}, s.searchErr
	}
	return s.searchPage, nil
}

func (s *videoStoreStub) ListByOwner(_ context.Context, _ primitive.ObjectID) ([]models.Video, error) {
	return s.ownerVideos, nil
}

type commentStoreStub struct {
	comments    map[primitive.ObjectID]models.Comment
	created     *models.Comment
	page        query.Page[models.Comment]
	listedVideo primitive.ObjectID
	listParams  query.Params
	deleted     []primitive.ObjectID
	cascadedIDs []primitive.ObjectID
}

func newCommentStoreStub() *commentStoreStub {
	return &commentStoreStub{comments: make(map[primitive.ObjectID]models.Comment)}
}

func (s *commentStoreStub) add(comment models.Comment) models.Comment {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	s.comments[comment.ID] = comment
	return comment
}

func (s *commentStoreStub) Create(_ context.Context, comment models.Comment) (models.Comment, error) {
	comment.ID = primitive.NewObjectID()
	s.created = &comment
	s.comments[comment.ID] = comment
	return comment, nil
}

func (s *commentStoreStub) FindByID(_ context.Context, id primitive.ObjectID) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *commentStoreStub) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	comment.Content = content
	s.comments[id] = comment
	return comment, nil
}

func (s *commentStoreStub) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *commentStoreStub) ListByVideo(_ context.Context, videoID primitive.ObjectID, p query.Params) (query.Page[models.Comment], error) {
	s.listedVideo = videoID
	s.listParams = p
	return s.page, nil
}

func (s *commentStoreStub) DeleteByVideo(_ context.Context, videoID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for id, comment := range s.comments {
		if comment.Video == videoID {
			ids = append(ids, id)
			delete(s.comments, id)
		}
	}
	s.cascadedIDs = ids
	return ids, nil
}

type tweetStoreStub struct {
	tweets  map[primitive.ObjectID]models.Tweet
	created *models.Tweet
	deleted []primitive.ObjectID
	byOwner []models.Tweet
}

func newTweetStoreStub() *tweetStoreStub {
	return &tweetStoreStub{tweets: make(map[primitive.ObjectID]models.Tweet)}
}

func (s *tweetStoreStub) add(tweet models.Tweet) models.Tweet {
	if tweet.ID.IsZero() {
		tweet.ID = primitive.NewObjectID()
	}
	s.tweets[tweet.ID] = tweet
	return tweet
}

func (s *tweetStoreStub) Create(_ context.Context, tweet models.Tweet) (models.Tweet, error) {
	tweet.ID = primitive.NewObjectID()
	s.created = &tweet
	s.tweets[tweet.ID] = tweet
	return tweet, nil
}

func (s *tweetStoreStub) FindByID(_ context.Context, id primitive.ObjectID) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return tweet, nil
}

func (s *tweetStoreStub) ListByOwner(_ context.Context, _ primitive.ObjectID) ([]models.Tweet, error) {
	return s.byOwner, nil
}

func (s *tweetStoreStub) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	tweet.Content = content
	s.tweets[id] = tweet
	return tweet, nil
}

func (s *tweetStoreStub) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.tweets, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type playlistStoreStub struct {
	playlists map[primitive.ObjectID]models.Playlist
	added     []primitive.ObjectID
	removed   []primitive.ObjectID
	deleted   []primitive.ObjectID
	byOwner   []models.PlaylistWithVideos
	joined    models.PlaylistWithVideos
	joinedErr error
}

func newPlaylistStoreStub() *playlistStoreStub {
	return &playlistStoreStub{playlists: make(map[primitive.ObjectID]models.Playlist)}
}

func (s *playlistStoreStub) add(playlist models.Playlist) models.Playlist {
	if playlist.ID.IsZero() {
		playlist.ID = primitive.NewObjectID()
	}
	s.playlists[playlist.ID] = playlist
	return playlist
}

func (s *playlistStoreStub) Create(_ context.Context, playlist models.Playlist) (models.Playlist, error) {
	playlist.ID = primitive.NewObjectID()
	s.playlists[playlist.ID] = playlist
	return playlist, nil
}

func (s *playlistStoreStub) FindByID(_ context.Context, id primitive.ObjectID) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s *playlistStoreStub) WithVideos(_ context.Context, id primitive.ObjectID) (models.PlaylistWithVideos, error) {
	if s.joinedErr != nil {
		return models.PlaylistWithVideos{}, s.joinedErr
	}
	if _, ok := s.playlists[id]; !ok {
		return models.PlaylistWithVideos{}, repositories.ErrNotFound
	}
	return s.joined, nil
}

func (s *playlistStoreStub) ListByOwner(_ context.Context, _ primitive.ObjectID) ([]models.PlaylistWithVideos, error) {
	return s.byOwner, nil
}

func (s *playlistStoreStub) AddVideo(_ context.Context, playlistID, videoID primitive.ObjectID) (models.Playlist, error) {
	playlist, ok := s.playlists[playlistID]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	playlist.Videos = append(playlist.Videos, videoID)
	s.playlists[playlistID] = playlist
	s.added = append(s.added, videoID)
	return playlist, nil
}

func (s *playlistStoreStub) RemoveVideo(_ context.Context, playlistID, videoID primitive.ObjectID) (models.Playlist, error) {
	playlist, ok := s.playlists[playlistID]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	kept := playlist.Videos[:0]
	for _, id := range playlist.Videos {
		if id != videoID {
			kept = append(kept, id)
		}
	}
	playlist.Videos = kept
	s.playlists[playlistID] = playlist
	s.removed = append(s.removed, videoID)
	return playlist, nil
}

func (s *playlistStoreStub) Update(_ context.Context, id primitive.ObjectID, update repositories.PlaylistUpdate) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	if update.Name != nil {
		playlist.Name = *update.Name
	}
	if update.Description != nil {
		playlist.Description = *update.Description
	}
	s.playlists[id] = playlist
	return playlist, nil
}

func (s *playlistStoreStub) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.playlists, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type likeKey struct {
	actor  primitive.ObjectID
	kind   repositories.LikeTargetKind
	target primitive.ObjectID
}

type likeStoreStub struct {
	likes           map[likeKey]bool
	likedVideos     []models.Video
	videoCascades   []primitive.ObjectID
	commentCascades []primitive.ObjectID
	tweetCascades   []primitive.ObjectID
	cascadeComments []primitive.ObjectID
}

func newLikeStoreStub() *likeStoreStub {
	return &likeStoreStub{likes: make(map[likeKey]bool)}
}

func (s *likeStoreStub) Toggle(_ context.Context, actor primitive.ObjectID, kind repositories.LikeTargetKind, target primitive.ObjectID) (bool, error) {
	key := likeKey{actor: actor, kind: kind, target: target}
	if s.likes[key] {
		delete(s.likes, key)
		return false, nil
	}
	s.likes[key] = true
	return true, nil
}

func (s *likeStoreStub) LikedVideos(_ context.Context, _ primitive.ObjectID) ([]models.Video, error) {
	return s.likedVideos, nil
}

func (s *likeStoreStub) DeleteForVideo(_ context.Context, videoID primitive.ObjectID, commentIDs []primitive.ObjectID) error {
	s.videoCascades = append(s.videoCascades, videoID)
	s.cascadeComments = commentIDs
	return nil
}

func (s *likeStoreStub) DeleteForComment(_ context.Context, commentID primitive.ObjectID) error {
	s.commentCascades = append(s.commentCascades, commentID)
	return nil
}

func (s *likeStoreStub) DeleteForTweet(_ context.Context, tweetID primitive.ObjectID) error {
	s.tweetCascades = append(s.tweetCascades, tweetID)
	return nil
}

type subscriptionStoreStub struct {
	edges       map[[2]primitive.ObjectID]bool
	subscribers []models.ChannelUser
	channels    []models.ChannelUser
}

func newSubscriptionStoreStub() *subscriptionStoreStub {
	return &subscriptionStoreStub{edges: make(map[[2]primitive.ObjectID]bool)}
}

func (s *subscriptionStoreStub) Toggle(_ context.Context, subscriber, channel primitive.ObjectID) (bool, error) {
	key := [2]primitive.ObjectID{subscriber, channel}
	if s.edges[key] {
		delete(s.edges, key)
		return false, nil
	}
	s.edges[key] = true
	return true, nil
}

func (s *subscriptionStoreStub) Subscribers(_ context.Context, _ primitive.ObjectID) ([]models.ChannelUser, error) {
	return s.subscribers, nil
}

func (s *subscriptionStoreStub) SubscribedChannels(_ context.Context, _ primitive.ObjectID) ([]models.ChannelUser, error) {
	return s.channels, nil
}

type statsStoreStub struct {
	stats models.ChannelStats
	err   error
}

func (s statsStoreStub) ChannelStats(_ context.Context, _ primitive.ObjectID) (models.ChannelStats, error) {
	return s.stats, s.err
}

// mediaStoreStub honours the Store contract: the local file is removed on
// every Upload call, success or not.
type mediaStoreStub struct {
	uploads   []string
	uploadErr error
	asset     media.Asset
	deleted   []string
	// blankFrom, when non-zero, makes uploads numbered blankFrom and later
	// return an empty asset with a nil error.
	blankFrom int
}

func (s *mediaStoreStub) Upload(_ context.Context, localPath string) (media.Asset, error) {
	os.Remove(localPath)
	s.uploads = append(s.uploads, localPath)
	if s.uploadErr != nil {
		return media.Asset{}, s.uploadErr
	}
	if s.blankFrom > 0 && len(s.uploads) >= s.blankFrom {
		return media.Asset{}, nil
	}
	if s.asset.Empty() {
		return media.Asset{PublicID: primitive.NewObjectID().Hex(), URL: "https://cdn.example.com/stub"}, nil
	}
	return s.asset, nil
}

func (s *mediaStoreStub) Delete(_ context.Context, publicID string) {
	s.deleted = append(s.deleted, publicID)
}

type proberStub struct {
	duration float64
	err      error
}

func (p proberStub) Duration(_ context.Context, _ string) (float64, error) {
	return p.duration, p.err
}
