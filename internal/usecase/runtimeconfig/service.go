// Package runtimeconfig manages the store-backed configuration entries
// read by the engine at request time (prompt template, tuning knobs).
// Every mutation invalidates the read cache before returning, so a
// write followed by any read observes the new value.
package runtimeconfig

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mealradar/mealradar/internal/domain"
)

// Service implements configuration entry operations.
type Service struct {
	repo   repo
	cache  invalidator
	logger *zap.Logger
}

// NewService creates a runtime configuration service.
func NewService(r repo, cache invalidator, logger *zap.Logger) *Service {
	return &Service{repo: r, cache: cache, logger: logger}
}

// Get returns a single entry value.
func (s *Service) Get(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("entry name is required: %w", domain.ErrValidation)
	}
	v, err := s.repo.Get(ctx, name)
	if err != nil {
		return "", fmt.Errorf("get config entry: %w", err)
	}
	return v, nil
}

// All returns every entry.
func (s *Service) All(ctx context.Context) (map[string]string, error) {
	entries, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list config entries: %w", err)
	}
	return entries, nil
}

// Set creates or replaces an entry and invalidates the cache. Returns
// true if created.
func (s *Service) Set(ctx context.Context, name, value string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("entry name is required: %w", domain.ErrValidation)
	}

	created, err := s.repo.Set(ctx, name, value)
	if err != nil {
		return false, fmt.Errorf("set config entry: %w", err)
	}
	s.cache.Invalidate()

	s.logger.Info("Config entry set",
		zap.String("name", name),
		zap.Bool("created", created),
	)
	return created, nil
}

// Delete removes an entry and invalidates the cache.
func (s *Service) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("entry name is required: %w", domain.ErrValidation)
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete config entry: %w", err)
	}
	s.cache.Invalidate()

	s.logger.Info("Config entry deleted", zap.String("name", name))
	return nil
}
