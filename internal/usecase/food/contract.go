package food

import (
	"context"

	domfood "github.com/mealradar/mealradar/internal/domain/food"
)

// repo is the food persistence contract.
type repo interface {
	Get(ctx context.Context, id string) (domfood.Food, error)
	GetMulti(ctx context.Context, ids []string) ([]domfood.Food, error)
	Upsert(ctx context.Context, f *domfood.Food) (bool, error)
	Delete(ctx context.Context, id string) error
}
