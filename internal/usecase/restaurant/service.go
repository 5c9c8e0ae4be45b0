// Package restaurant exposes restaurant browsing and ingest operations.
// Listing here is the exact-count path: totals come from the store and
// pagination invariants hold strictly.
package restaurant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mealradar/mealradar/internal/domain"
	domres "github.com/mealradar/mealradar/internal/domain/restaurant"
	"github.com/mealradar/mealradar/internal/domain/search/page"
)

// ListResult is a page of restaurants with exact pagination metadata.
type ListResult struct {
	Data []domres.Restaurant `json:"data"`
	Meta page.Meta           `json:"meta"`
}

// Service implements restaurant operations.
type Service struct {
	repo   repo
	logger *zap.Logger
}

// NewService creates a restaurant service.
func NewService(r repo, logger *zap.Logger) *Service {
	return &Service{repo: r, logger: logger}
}

// List returns a filtered page of restaurants with an authoritative
// total from the store.
func (s *Service) List(ctx context.Context, q domres.Query, limit, skip int) (ListResult, error) {
	if limit <= 0 {
		limit = page.DefaultLimit
	}
	if limit > page.MaxLimit {
		limit = page.MaxLimit
	}
	if skip < 0 {
		skip = 0
	}

	restaurants, total, err := s.repo.List(ctx, q, skip, limit)
	if err != nil {
		return ListResult{}, fmt.Errorf("list restaurants: %w", err)
	}
	if restaurants == nil {
		restaurants = []domres.Restaurant{}
	}

	return ListResult{
		Data: restaurants,
		Meta: page.Exact(total, limit, skip),
	}, nil
}

// Get returns a restaurant by id.
func (s *Service) Get(ctx context.Context, id string) (domres.Restaurant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domres.Restaurant{}, fmt.Errorf("restaurant id is required: %w", domain.ErrValidation)
	}
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domres.Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	return r, nil
}

// Upsert validates and stores a restaurant. Returns true if created.
func (s *Service) Upsert(ctx context.Context, r *domres.Restaurant) (bool, error) {
	if strings.TrimSpace(r.ID) == "" {
		return false, fmt.Errorf("restaurant id is required: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(r.Name) == "" {
		return false, fmt.Errorf("restaurant name is required: %w", domain.ErrValidation)
	}
	if r.Location.Type != "Point" {
		return false, fmt.Errorf("location.type must be \"Point\": %w", domain.ErrValidation)
	}
	if _, err := domres.NewLocation(r.Location.Lon(), r.Location.Lat()); err != nil {
		return false, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	created, err := s.repo.Upsert(ctx, r)
	if err != nil {
		return false, fmt.Errorf("upsert restaurant: %w", err)
	}

	s.logger.Info("Restaurant upserted",
		zap.String("id", r.ID),
		zap.Bool("created", created),
		zap.Int("menu_size", len(r.Menu)),
	)
	return created, nil
}

// Delete removes a restaurant by id. Menu food documents are shared and
// stay untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("restaurant id is required: %w", domain.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	s.logger.Info("Restaurant deleted", zap.String("id", id))
	return nil
}
