// Package page computes pagination metadata for the two query execution
// paths: exact-count (plain filtered lists, authoritative totals) and
// windowed (geo-bounded lists, where the store cannot cheaply count and
// totals are best-effort).
package page

// DefaultLimit and MaxLimit are the page size bounds callers apply
// before computing metadata. Meta construction itself takes the limit
// as given; only a non-positive limit is replaced with DefaultLimit.
const (
	DefaultLimit = 40
	MaxLimit     = 100
)

// Meta is the pagination envelope returned with every list response.
type Meta struct {
	HasMore      bool `json:"hasMore"`
	TotalItems   int  `json:"totalItems"`
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	ItemsPerPage int  `json:"itemsPerPage"`
}

// Exact builds metadata from an authoritative store count.
// Invariants: totalPages = ceil(totalItems/limit) and
// hasMore == (currentPage < totalPages).
func Exact(totalItems, limit, skip int) Meta {
	limit = clampLimit(limit)
	current := currentPage(limit, skip)
	totalPages := (totalItems + limit - 1) / limit
	return Meta{
		HasMore:      current < totalPages,
		TotalItems:   totalItems,
		CurrentPage:  current,
		TotalPages:   totalPages,
		ItemsPerPage: limit,
	}
}

// Windowed builds metadata for geo-bounded mode from the number of items
// observed after over-fetch and in-memory filtering. TotalItems here is
// the observed window size, not an authoritative count; hasMore is true
// exactly when the window extends past the requested page. Callers must
// not treat TotalItems as exact in this mode.
func Windowed(observed, limit, skip int) Meta {
	limit = clampLimit(limit)
	current := currentPage(limit, skip)
	totalPages := (observed + limit - 1) / limit
	return Meta{
		HasMore:      observed > skip+limit,
		TotalItems:   observed,
		CurrentPage:  current,
		TotalPages:   totalPages,
		ItemsPerPage: limit,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

func currentPage(limit, skip int) int {
	if skip < 0 {
		skip = 0
	}
	return skip/limit + 1
}
