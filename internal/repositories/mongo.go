package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// timeNow is swapped out by tests.
var timeNow = func() time.Time { return time.Now().UTC() }

// findAndSet applies a $set update to the document with the given id and
// returns the updated document.
func findAndSet[T any](ctx context.Context, col *mongo.Collection, id primitive.ObjectID, set bson.D) (T, error) {
	var doc T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return doc, ErrNotFound
		}
		return doc, fmt.Errorf("update %s document: %w", col.Name(), err)
	}
	return doc, nil
}

// findByID decodes the document with the given id.
func findByID[T any](ctx context.Context, col *mongo.Collection, id primitive.ObjectID) (T, error) {
	var doc T
	err := col.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return doc, ErrNotFound
		}
		return doc, fmt.Errorf("find %s document: %w", col.Name(), err)
	}
	return doc, nil
}

// deleteByID removes the document with the given id, reporting ErrNotFound
// when nothing matched.
func deleteByID(ctx context.Context, col *mongo.Collection, id primitive.ObjectID) error {
	res, err := col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete %s document: %w", col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
