// Package db defines the document-store contract consumed by the
// repositories. The store is a Redis-compatible server with the JSON and
// search modules; drivers live in subpackages.
package db

import (
	"context"
	"time"

	"github.com/mealradar/mealradar/internal/domain/search/filter"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	JSONStore
	KVStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JSONStore provides JSON document operations.
type JSONStore interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	// JSONMGet fetches one path from many keys in a single round-trip.
	// The result has one entry per key; missing keys yield nil entries.
	JSONMGet(ctx context.Context, path string, keys []string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// ListQuery is the input for a filtered, offset-paginated index search.
type ListQuery struct {
	IndexName    string
	Filters      filter.Expression // empty compiles to the match-all query
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation. Total is the number
// of index matches, which can exceed len(Entries) when a LIMIT applies.
// With a geo predicate active Total reflects restaurant-level matches
// only and is not a flattened item count.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}

// Searcher provides search operations over FT indexes.
type Searcher interface {
	Search(ctx context.Context, q *ListQuery) (*SearchResult, error)
	// Count returns the exact number of matches via a zero-window search.
	// Not usable with geo-radius filters at acceptable cost; callers on
	// the geo path derive pagination from over-fetch instead.
	Count(ctx context.Context, index string, filters filter.Expression) (int, error)
}
