// Package search implements the food discovery engine: intent
// resolution, filter merging, the geo-bounded restaurant fetch, menu
// flattening with in-memory filtering, and windowed pagination.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mealradar/mealradar/internal/domain"
	"github.com/mealradar/mealradar/internal/domain/food"
	"github.com/mealradar/mealradar/internal/domain/geo"
	"github.com/mealradar/mealradar/internal/domain/restaurant"
	"github.com/mealradar/mealradar/internal/domain/search/filterset"
	"github.com/mealradar/mealradar/internal/domain/search/page"
	"github.com/mealradar/mealradar/internal/metrics"
)

// Tuning holds the engine knobs loaded from configuration.
type Tuning struct {
	DefaultPageSize     int
	MaxPageSize         int
	OverFetchMultiplier int
	MaxCandidates       int
}

// Query is a flattened food search request.
type Query struct {
	Lat               float64
	Lon               float64
	MaxDistanceMeters float64
	Limit             int
	Skip              int
	Prompt            string
	Filters           filterset.FilterSet
}

// Item is one flattened search hit: a food on a nearby restaurant's
// menu, annotated with the restaurant summary and its distance from the
// origin. The food fields serialize at the top level of each element.
type Item struct {
	food.Food
	Restaurant     restaurant.Summary `json:"restaurant"`
	DistanceMeters float64            `json:"distanceMeters"`
}

// Result is a page of flattened items with windowed pagination metadata.
type Result struct {
	Data []Item    `json:"data"`
	Meta page.Meta `json:"meta"`
}

// Service is the search engine.
type Service struct {
	resolver    intentResolver
	restaurants restaurantFinder
	foods       menuSource
	tuning      Tuning
	logger      *zap.Logger
}

// NewService creates the search engine service.
func NewService(
	resolver intentResolver, restaurants restaurantFinder, foods menuSource,
	tuning Tuning, logger *zap.Logger,
) *Service {
	return &Service{
		resolver:    resolver,
		restaurants: restaurants,
		foods:       foods,
		tuning:      tuning,
		logger:      logger,
	}
}

// Search executes the full pipeline. Results are ordered by restaurant
// distance, nearest first, preserving menu order within a restaurant.
func (s *Service) Search(ctx context.Context, q Query) (Result, error) {
	if !geo.ValidateCoordinates(q.Lat, q.Lon) {
		return Result{}, fmt.Errorf(
			"coordinates [%g, %g] out of range: %w", q.Lon, q.Lat, domain.ErrValidation,
		)
	}

	limit := s.clampLimit(q.Limit)
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}

	// A non-positive radius matches nothing. Resolved before any store
	// or provider call is spent.
	if q.MaxDistanceMeters <= 0 {
		return Result{Data: []Item{}, Meta: page.Windowed(0, limit, skip)}, nil
	}

	filters := q.Filters
	if q.Prompt != "" {
		frag := s.resolver.Resolve(ctx, q.Prompt)
		filters = filterset.Merge(filters, frag)
	}

	candidates, err := s.restaurants.FindNearby(
		ctx, q.Lat, q.Lon, q.MaxDistanceMeters,
		restaurant.Query{IDs: filters.RestaurantIDs},
		s.fetchLimit(limit, skip),
	)
	if err != nil {
		return Result{}, fmt.Errorf("find nearby restaurants: %w", err)
	}
	metrics.SearchCandidatesFetched.Observe(float64(len(candidates)))

	items, err := s.flatten(ctx, candidates, filters)
	if err != nil {
		return Result{}, err
	}

	observed := len(items)
	items = window(items, skip, limit)

	s.logger.Debug("Search completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("observed", observed),
		zap.Int("returned", len(items)),
	)

	return Result{Data: items, Meta: page.Windowed(observed, limit, skip)}, nil
}

// flatten expands candidate menus into (food, restaurant) items and
// applies the food-level filters. All menu ids across all candidates are
// resolved in a single batched fetch; candidate order (nearest first)
// and menu order within each restaurant are preserved.
func (s *Service) flatten(
	ctx context.Context, candidates []restaurant.WithDistance, filters filterset.FilterSet,
) ([]Item, error) {
	ids := collectMenuIDs(candidates)
	if len(ids) == 0 {
		return []Item{}, nil
	}

	foods, err := s.foods.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch menu foods: %w", err)
	}

	byID := make(map[string]food.Food, len(foods))
	for _, f := range foods {
		byID[f.ID] = f
	}

	items := make([]Item, 0, len(foods))
	for _, cand := range candidates {
		summary := cand.Restaurant.Summarize()
		for _, foodID := range cand.Restaurant.Menu {
			f, ok := byID[foodID]
			if !ok {
				continue // dangling menu reference
			}
			if !f.MatchesFilter(filters) {
				continue
			}
			items = append(items, Item{
				Food:           f,
				Restaurant:     summary,
				DistanceMeters: cand.DistanceMeters,
			})
		}
	}
	return items, nil
}

// collectMenuIDs gathers the deduplicated union of all candidate menus.
func collectMenuIDs(candidates []restaurant.WithDistance) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, cand := range candidates {
		for _, id := range cand.Restaurant.Menu {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

func window(items []Item, skip, limit int) []Item {
	if skip >= len(items) {
		return []Item{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.tuning.DefaultPageSize
	}
	if limit > s.tuning.MaxPageSize {
		return s.tuning.MaxPageSize
	}
	return limit
}

// fetchLimit sizes the restaurant candidate window. Filtering happens
// after the fetch, so the window over-fetches proportionally to the
// requested page depth, bounded by MaxCandidates.
func (s *Service) fetchLimit(limit, skip int) int {
	n := s.tuning.OverFetchMultiplier * (skip + limit)
	if n > s.tuning.MaxCandidates {
		return s.tuning.MaxCandidates
	}
	if n < limit {
		return limit
	}
	return n
}
