// Package food exposes food item retrieval, side-by-side comparison,
// and ingest operations.
package food

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mealradar/mealradar/internal/domain"
	domfood "github.com/mealradar/mealradar/internal/domain/food"
)

// MaxCompareItems bounds a single comparison request.
const MaxCompareItems = 10

// Comparison is the result of comparing foods side by side. Missing ids
// are reported rather than silently dropped so the client can tell a
// partial result from a full one.
type Comparison struct {
	Foods   []domfood.Food `json:"foods"`
	Missing []string       `json:"missing,omitempty"`
}

// Service implements food operations.
type Service struct {
	repo   repo
	logger *zap.Logger
}

// NewService creates a food service.
func NewService(r repo, logger *zap.Logger) *Service {
	return &Service{repo: r, logger: logger}
}

// Get returns a food by id.
func (s *Service) Get(ctx context.Context, id string) (domfood.Food, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domfood.Food{}, fmt.Errorf("food id is required: %w", domain.ErrValidation)
	}
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return domfood.Food{}, fmt.Errorf("get food: %w", err)
	}
	return f, nil
}

// Compare fetches the requested foods for side-by-side display. At
// least two must resolve, otherwise there is nothing to compare.
func (s *Service) Compare(ctx context.Context, ids []string) (Comparison, error) {
	ids = dedupe(ids)
	if len(ids) < 2 {
		return Comparison{}, fmt.Errorf(
			"comparison requires at least 2 distinct food ids: %w", domain.ErrValidation,
		)
	}
	if len(ids) > MaxCompareItems {
		return Comparison{}, fmt.Errorf(
			"comparison limited to %d foods, got %d: %w",
			MaxCompareItems, len(ids), domain.ErrValidation,
		)
	}

	foods, err := s.repo.GetMulti(ctx, ids)
	if err != nil {
		return Comparison{}, fmt.Errorf("fetch foods: %w", err)
	}
	if len(foods) < 2 {
		return Comparison{}, fmt.Errorf(
			"fewer than 2 of the requested foods exist: %w", domain.ErrNotFound,
		)
	}

	found := make(map[string]struct{}, len(foods))
	for _, f := range foods {
		found[f.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}

	return Comparison{Foods: foods, Missing: missing}, nil
}

// Upsert validates and stores a food. Returns true if created.
func (s *Service) Upsert(ctx context.Context, f *domfood.Food) (bool, error) {
	if strings.TrimSpace(f.ID) == "" {
		return false, fmt.Errorf("food id is required: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(f.Name) == "" {
		return false, fmt.Errorf("food name is required: %w", domain.ErrValidation)
	}

	created, err := s.repo.Upsert(ctx, f)
	if err != nil {
		return false, fmt.Errorf("upsert food: %w", err)
	}

	s.logger.Info("Food upserted",
		zap.String("id", f.ID),
		zap.Bool("created", created),
	)
	return created, nil
}

// Delete removes a food by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("food id is required: %w", domain.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	s.logger.Info("Food deleted", zap.String("id", id))
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
