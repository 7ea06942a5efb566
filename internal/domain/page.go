package domain

import "math"

// PaginationParams carries page/size values from the HTTP layer to the repo layer.
// Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

const (
	defaultPageSize = 10
	maxPageSize     = 50

	// MaxPage keeps (page-1)*limit within an int for every accepted limit.
	MaxPage = math.MaxInt / maxPageSize
)

// NewPaginationParams builds a PaginationParams from optional query params.
// Nil or non-positive values fall back to page=1, limit=10; limit is capped at 50
// and page at MaxPage. A page past the last match is simply empty.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: defaultPageSize}
	if page != nil && *page >= 1 {
		p.Page = min(*page, MaxPage)
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, maxPageSize)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results plus the total number of matching rows.
type Page[T any] struct {
	Items []T
	Page  int
	Limit int
	Total int
}
