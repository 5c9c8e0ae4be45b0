package restaurant

import (
	"context"

	domres "github.com/mealradar/mealradar/internal/domain/restaurant"
)

// repo is the restaurant persistence contract.
type repo interface {
	List(ctx context.Context, q domres.Query, offset, limit int) ([]domres.Restaurant, int, error)
	Get(ctx context.Context, id string) (domres.Restaurant, error)
	Upsert(ctx context.Context, r *domres.Restaurant) (bool, error)
	Delete(ctx context.Context, id string) error
}
