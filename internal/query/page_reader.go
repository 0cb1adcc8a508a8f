package query

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type facetPage[T any] struct {
	Items []T `bson:"items"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

// ReadPage decodes the single document produced by a Paginate facet stage
// into a page envelope. A facet over zero matching documents yields an empty
// total array, which decodes to zero totals rather than an error.
func ReadPage[T any](ctx context.Context, cursor *mongo.Cursor, p Params) (Page[T], error) {
	defer cursor.Close(ctx)

	var results []facetPage[T]
	if err := cursor.All(ctx, &results); err != nil {
		return Page[T]{}, fmt.Errorf("decode paginated result: %w", err)
	}

	if len(results) == 0 {
		return NewPage[T](nil, 0, p), nil
	}

	var total int64
	if len(results[0].Total) > 0 {
		total = results[0].Total[0].Count
	}

	return NewPage(results[0].Items, total, p), nil
}
