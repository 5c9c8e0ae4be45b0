// Package restaurant persists restaurants as JSON documents and executes
// the store-level queries of the search engine: the geo-bounded
// nearest-first candidate fetch and the exact-count browse list.
package restaurant

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mealradar/mealradar/internal/db"
	"github.com/mealradar/mealradar/internal/domain"
	domres "github.com/mealradar/mealradar/internal/domain/restaurant"
	"github.com/mealradar/mealradar/internal/domain/search/filter"
)

const (
	keyPrefix = domain.KeyPrefix + "restaurants:"
	indexName = keyPrefix + "idx"
)

// store is the consumer interface for restaurant persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Search(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	Count(ctx context.Context, index string, filters filter.Expression) (int, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// Repo implements the restaurant repository contracts of the usecases.
type Repo struct {
	store store
}

// New creates a restaurant repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// indexDefinition covers every restaurant-level predicate the engine
// composes: id allow-list, name/cuisine substring, the min-rating
// OR-group, and the GEO radius bound on the flattened "lon,lat" field.
func indexDefinition() *db.IndexDefinition {
	return db.NewIndex(indexName).OnJSON().Prefix(keyPrefix).
		Tag("$.id", "id").
		Text("$.name", "name").
		Text("$.cuisine", "cuisine").
		SortableNumeric("$.rating", "rating").
		Numeric("$.reviewSummary.avgTasteRating", "review_taste").
		Numeric("$.reviewSummary.avgHealthRating", "review_health").
		Geo("$.geo", "location").
		MustBuild()
}

// EnsureIndex creates the restaurant FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	err := r.store.CreateIndex(ctx, indexDefinition())
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create restaurant index: %w", err)
	}
	return nil
}

// FindNearby returns restaurants within radiusMeters of the origin that
// satisfy the query, nearest first, capped at fetchLimit. The GEO
// predicate makes exact totals cost-prohibitive, so no count is
// attempted here; callers derive pagination from the window size.
func (r *Repo) FindNearby(
	ctx context.Context, lat, lon, radiusMeters float64,
	q domres.Query, fetchLimit int,
) ([]domres.WithDistance, error) {
	geoCond, err := filter.NewGeoRadius("location", filter.GeoRadius{
		Lon: lon, Lat: lat, RadiusMeters: radiusMeters,
	})
	if err != nil {
		return nil, fmt.Errorf("geo condition: %w", err)
	}

	expr, err := buildExpression(q, &geoCond)
	if err != nil {
		return nil, err
	}

	sr, err := r.store.Search(ctx, &db.ListQuery{
		IndexName:    indexName,
		Filters:      expr,
		Offset:       0,
		Limit:        fetchLimit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("search nearby: %w", err)
	}

	nearby := make([]domres.WithDistance, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		rest, err := parseEntry(entry)
		if err != nil {
			continue // tolerate individual malformed documents
		}
		nearby = append(nearby, domres.WithDistance{
			Restaurant:     rest,
			DistanceMeters: rest.DistanceFrom(lat, lon),
		})
	}

	// The store bounds the radius but does not order by distance;
	// nearest-first is established here. Stable to keep result order
	// deterministic for equidistant restaurants.
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})

	return nearby, nil
}

// List returns restaurants matching the query with an exact total,
// offset-paginated. This is the non-geo browse path.
func (r *Repo) List(
	ctx context.Context, q domres.Query, offset, limit int,
) ([]domres.Restaurant, int, error) {
	expr, err := buildExpression(q, nil)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.store.Count(ctx, indexName, expr)
	if err != nil {
		return nil, 0, fmt.Errorf("count restaurants: %w", err)
	}
	if total == 0 || offset >= total {
		return nil, total, nil
	}

	sr, err := r.store.Search(ctx, &db.ListQuery{
		IndexName:    indexName,
		Filters:      expr,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list restaurants: %w", err)
	}

	out := make([]domres.Restaurant, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		rest, err := parseEntry(entry)
		if err != nil {
			continue
		}
		out = append(out, rest)
	}
	return out, total, nil
}

// Get returns a restaurant by id.
func (r *Repo) Get(ctx context.Context, id string) (domres.Restaurant, error) {
	raw, err := r.store.JSONGet(ctx, keyPrefix+id, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domres.Restaurant{}, domain.ErrNotFound
		}
		return domres.Restaurant{}, fmt.Errorf("json.get restaurant %s: %w", id, err)
	}
	return unmarshalRestaurant(raw)
}

// Upsert creates or replaces a restaurant document. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, rest *domres.Restaurant) (bool, error) {
	key := keyPrefix + rest.ID

	data, err := marshalRestaurant(rest)
	if err != nil {
		return false, fmt.Errorf("marshal restaurant %s: %w", rest.ID, err)
	}

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}
	return !exists, nil
}

// Delete removes a restaurant document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := keyPrefix + id

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// buildExpression composes the restaurant-level FT predicates. The
// min-rating constraint is an OR across the direct rating and the two
// review-summary aggregates (should-group semantics).
func buildExpression(q domres.Query, geo *filter.Condition) (filter.Expression, error) {
	var must []filter.Condition
	var should []filter.Condition

	if geo != nil {
		must = append(must, *geo)
	}

	if len(q.IDs) > 0 {
		cond, err := filter.NewMatchAny("id", q.IDs...)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("id filter: %w", err)
		}
		must = append(must, cond)
	}

	if q.Name != "" {
		cond, err := filter.NewSubstring("name", q.Name)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("name filter: %w", err)
		}
		must = append(must, cond)
	}

	if q.Cuisine != "" {
		cond, err := filter.NewSubstring("cuisine", q.Cuisine)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("cuisine filter: %w", err)
		}
		must = append(must, cond)
	}

	if q.MinRating != nil {
		for _, key := range []string{"rating", "review_taste", "review_health"} {
			cond, err := filter.NewRange(key, filter.GTE(*q.MinRating))
			if err != nil {
				return filter.Expression{}, fmt.Errorf("rating filter: %w", err)
			}
			should = append(should, cond)
		}
	}

	expr, err := filter.NewExpression(must, should)
	if err != nil {
		return filter.Expression{}, fmt.Errorf("new expression: %w", err)
	}
	return expr, nil
}
