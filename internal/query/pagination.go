// Package query builds MongoDB aggregation pipelines for the paginated,
// joined, and computed views the API serves. It centralises the pagination
// math and the page envelope shared by every list endpoint.
package query

import "strconv"

const (
	// DefaultPage is used when the caller omits or mangles the page parameter.
	DefaultPage = 1
	// DefaultLimit is used when the caller omits or mangles the limit parameter.
	DefaultLimit = 10
)

// Params carries sanitised pagination parameters.
type Params struct {
	Page  int64
	Limit int64
}

// ParsePagination converts raw query-string values into Params. Non-numeric
// or non-positive values fall back to the defaults rather than erroring.
func ParsePagination(page, limit string) Params {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}
	if n, err := strconv.ParseInt(page, 10, 64); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.ParseInt(limit, 10, 64); err == nil && n > 0 {
		p.Limit = n
	}
	return p
}

// Skip returns the number of documents to skip for the current page.
func (p Params) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

// Page is the uniform pagination envelope returned by list endpoints.
type Page[T any] struct {
	Items       []T   `json:"items"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int64 `json:"currentPage"`
}

// NewPage assembles the envelope for the given items and total count. Pages
// beyond the end of the collection yield an empty item list with unchanged
// totals.
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := total / p.Limit
	if total%p.Limit != 0 {
		totalPages++
	}
	return Page[T]{
		Items:       items,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
	}
}
