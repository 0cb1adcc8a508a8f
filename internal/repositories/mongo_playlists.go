package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/query"
)

// MongoPlaylistRepository provides MongoDB-backed persistence for playlists.
type MongoPlaylistRepository struct {
	playlists *mongo.Collection
}

// NewMongoPlaylistRepository constructs a playlist repository backed by MongoDB.
func NewMongoPlaylistRepository(db *mongo.Database) *MongoPlaylistRepository {
	return &MongoPlaylistRepository{playlists: db.Collection(CollPlaylists)}
}

// Create persists a new playlist document.
func (r *MongoPlaylistRepository) Create(ctx context.Context, playlist models.Playlist) (models.Playlist, error) {
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}
	res, err := r.playlists.InsertOne(ctx, playlist)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}
	playlist.ID = res.InsertedID.(primitive.ObjectID)
	return playlist, nil
}

// FindByID fetches the raw playlist document.
func (r *MongoPlaylistRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Playlist, error) {
	return findByID[models.Playlist](ctx, r.playlists, id)
}

// WithVideos fetches the playlist with its video references joined into full
// video documents.
func (r *MongoPlaylistRepository) WithVideos(ctx context.Context, id primitive.ObjectID) (models.PlaylistWithVideos, error) {
	joined, err := r.aggregateWithVideos(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return models.PlaylistWithVideos{}, err
	}
	if len(joined) == 0 {
		return models.PlaylistWithVideos{}, ErrNotFound
	}
	return joined[0], nil
}

// ListByOwner returns the user's playlists with joined video documents.
func (r *MongoPlaylistRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.PlaylistWithVideos, error) {
	return r.aggregateWithVideos(ctx, bson.D{{Key: "owner", Value: owner}})
}

func (r *MongoPlaylistRepository) aggregateWithVideos(ctx context.Context, filter bson.D) ([]models.PlaylistWithVideos, error) {
	pipeline := query.New().
		Match(filter).
		Lookup(CollVideos, "videos", "_id", "videoDocs").
		Sort("createdAt", true).
		Pipeline()

	cursor, err := r.playlists.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate playlists: %w", err)
	}
	defer cursor.Close(ctx)

	joined := []models.PlaylistWithVideos{}
	if err := cursor.All(ctx, &joined); err != nil {
		return nil, fmt.Errorf("decode playlists: %w", err)
	}
	return joined, nil
}

// AddVideo appends the video reference, deduplicating membership.
func (r *MongoPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (models.Playlist, error) {
	res, err := r.playlists.UpdateByID(ctx, playlistID, bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "videos", Value: videoID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: timeNow()}}},
	})
	if err != nil {
		return models.Playlist{}, fmt.Errorf("add video to playlist: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Playlist{}, ErrNotFound
	}
	return r.FindByID(ctx, playlistID)
}

// RemoveVideo pulls the video reference from the playlist.
func (r *MongoPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (models.Playlist, error) {
	res, err := r.playlists.UpdateByID(ctx, playlistID, bson.D{
		{Key: "$pull", Value: bson.D{{Key: "videos", Value: videoID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: timeNow()}}},
	})
	if err != nil {
		return models.Playlist{}, fmt.Errorf("remove video from playlist: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Playlist{}, ErrNotFound
	}
	return r.FindByID(ctx, playlistID)
}

// Update applies name/description changes and returns the updated playlist.
func (r *MongoPlaylistRepository) Update(ctx context.Context, id primitive.ObjectID, update PlaylistUpdate) (models.Playlist, error) {
	set := bson.D{{Key: "updatedAt", Value: timeNow()}}
	if update.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *update.Name})
	}
	if update.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *update.Description})
	}
	return findAndSet[models.Playlist](ctx, r.playlists, id, set)
}

// Delete removes the playlist document. Videos themselves are untouched.
func (r *MongoPlaylistRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.playlists, id)
}

var _ PlaylistRepository = (*MongoPlaylistRepository)(nil)
