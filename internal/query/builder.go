package query

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Builder composes aggregation pipelines from filter, join, sort, and
// pagination stages so individual repositories do not repeat the stage
// plumbing.
type Builder struct {
	stages mongo.Pipeline
}

// New returns an empty pipeline builder.
func New() *Builder {
	return &Builder{}
}

// Match appends a $match stage with the provided filter.
func (b *Builder) Match(filter bson.D) *Builder {
	b.stages = append(b.stages, bson.D{{Key: "$match", Value: filter}})
	return b
}

// Search appends a $match stage that OR-matches a case-insensitive substring
// of term across the named fields. An empty term is a no-op so callers can
// pass the raw query parameter through.
func (b *Builder) Search(term string, fields ...string) *Builder {
	if term == "" || len(fields) == 0 {
		return b
	}
	pattern := regexp.QuoteMeta(term)
	or := make(bson.A, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.D{{Key: field, Value: bson.D{
			{Key: "$regex", Value: pattern},
			{Key: "$options", Value: "i"},
		}}})
	}
	b.stages = append(b.stages, bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: or}}}})
	return b
}

// Lookup appends a $lookup stage joining documents from another collection.
func (b *Builder) Lookup(from, localField, foreignField, as string) *Builder {
	b.stages = append(b.stages, bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}}})
	return b
}

// Unwind appends a $unwind stage for the given array path. With
// preserveEmpty, documents whose array is empty survive the stage so joins
// tolerate missing references; without it, unresolved references drop out.
func (b *Builder) Unwind(path string, preserveEmpty bool) *Builder {
	b.stages = append(b.stages, bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: path},
		{Key: "preserveNullAndEmptyArrays", Value: preserveEmpty},
	}}})
	return b
}

// ReplaceRoot appends a $replaceRoot stage promoting the named embedded
// document to the document root.
func (b *Builder) ReplaceRoot(path string) *Builder {
	b.stages = append(b.stages, bson.D{{Key: "$replaceRoot", Value: bson.D{
		{Key: "newRoot", Value: path},
	}}})
	return b
}

// AddFields appends an $addFields stage.
func (b *Builder) AddFields(fields bson.D) *Builder {
	b.stages = append(b.stages, bson.D{{Key: "$addFields", Value: fields}})
	return b
}

// Project appends a $project stage.
func (b *Builder) Project(fields bson.D) *Builder {
	b.stages = append(b.stages, bson.D{{Key: "$project", Value: fields}})
	return b
}

// Sort appends a $sort stage on a single field. descending=true sorts
// newest/largest first.
func (b *Builder) Sort(field string, descending bool) *Builder {
	direction := 1
	if descending {
		direction = -1
	}
	b.stages = append(b.stages, bson.D{{Key: "$sort", Value: bson.D{{Key: field, Value: direction}}}})
	return b
}

// Paginate appends a $facet stage that returns the requested page of items
// alongside the total matching count in a single pass.
func (b *Builder) Paginate(p Params) *Builder {
	b.stages = append(b.stages, bson.D{{Key: "$facet", Value: bson.D{
		{Key: "items", Value: bson.A{
			bson.D{{Key: "$skip", Value: p.Skip()}},
			bson.D{{Key: "$limit", Value: p.Limit}},
		}},
		{Key: "total", Value: bson.A{
			bson.D{{Key: "$count", Value: "count"}},
		}},
	}}})
	return b
}

// Pipeline returns the assembled aggregation pipeline.
func (b *Builder) Pipeline() mongo.Pipeline {
	return b.stages
}
