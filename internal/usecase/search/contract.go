package search

import (
	"context"

	"github.com/mealradar/mealradar/internal/domain/food"
	"github.com/mealradar/mealradar/internal/domain/restaurant"
	"github.com/mealradar/mealradar/internal/domain/search/filterset"
)

// intentResolver derives filter fragments from free text, best-effort.
type intentResolver interface {
	Resolve(ctx context.Context, prompt string) filterset.Fragment
}

// restaurantFinder is the geo-bounded candidate source.
type restaurantFinder interface {
	FindNearby(
		ctx context.Context, lat, lon, radiusMeters float64,
		q restaurant.Query, fetchLimit int,
	) ([]restaurant.WithDistance, error)
}

// menuSource resolves menu food ids to documents in one round-trip.
type menuSource interface {
	GetMulti(ctx context.Context, ids []string) ([]food.Food, error)
}
