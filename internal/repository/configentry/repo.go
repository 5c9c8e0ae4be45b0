// Package configentry persists runtime configuration entries as plain
// key-value pairs. Entries are free-form strings (prompt templates,
// tuning knobs) editable through the admin API without a redeploy.
package configentry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mealradar/mealradar/internal/db"
	"github.com/mealradar/mealradar/internal/domain"
)

const keyPrefix = domain.KeyPrefix + "config:"

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the configuration entry store.
type Repo struct {
	store store
}

// New creates a configuration entry repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns the value of a single entry.
func (r *Repo) Get(ctx context.Context, name string) (string, error) {
	data, err := r.store.Get(ctx, keyPrefix+name)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get config entry %s: %w", name, err)
	}
	return string(data), nil
}

// Set creates or replaces an entry. Returns true if created.
func (r *Repo) Set(ctx context.Context, name, value string) (bool, error) {
	key := keyPrefix + name

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.Set(ctx, key, []byte(value)); err != nil {
		return false, fmt.Errorf("set config entry %s: %w", name, err)
	}
	return !exists, nil
}

// Delete removes an entry.
func (r *Repo) Delete(ctx context.Context, name string) error {
	key := keyPrefix + name

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete config entry %s: %w", name, err)
	}
	return nil
}

// All returns every entry as a name-to-value map.
func (r *Repo) All(ctx context.Context) (map[string]string, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan config entries: %w", err)
	}

	entries := make(map[string]string, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // deleted between scan and get
			}
			return nil, fmt.Errorf("get config entry %s: %w", key, err)
		}
		entries[strings.TrimPrefix(key, keyPrefix)] = string(data)
	}
	return entries, nil
}
