// Package food persists food items as standalone JSON documents. Menu
// membership lives on the restaurant side, so the hot path here is the
// batched multi-get used by menu flattening.
package food

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mealradar/mealradar/internal/db"
	"github.com/mealradar/mealradar/internal/domain"
	domfood "github.com/mealradar/mealradar/internal/domain/food"
)

const keyPrefix = domain.KeyPrefix + "foods:"

type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONMGet(ctx context.Context, path string, keys []string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo implements the food repository contracts of the usecases.
type Repo struct {
	store store
}

// New creates a food repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns a food by id.
func (r *Repo) Get(ctx context.Context, id string) (domfood.Food, error) {
	raw, err := r.store.JSONGet(ctx, keyPrefix+id, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domfood.Food{}, domain.ErrNotFound
		}
		return domfood.Food{}, fmt.Errorf("json.get food %s: %w", id, err)
	}
	return unmarshalFood(raw)
}

// GetMulti fetches many foods in one round-trip. Ids that resolve to no
// document are silently skipped; menus may reference foods that were
// deleted after the menu was written.
func (r *Repo) GetMulti(ctx context.Context, ids []string) ([]domfood.Food, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}

	docs, err := r.store.JSONMGet(ctx, "$", keys)
	if err != nil {
		return nil, fmt.Errorf("json.mget foods: %w", err)
	}

	out := make([]domfood.Food, 0, len(docs))
	for _, raw := range docs {
		if raw == nil {
			continue
		}
		f, err := unmarshalFood(raw)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// Upsert creates or replaces a food document. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, f *domfood.Food) (bool, error) {
	key := keyPrefix + f.ID

	data, err := json.Marshal(f)
	if err != nil {
		return false, fmt.Errorf("marshal food %s: %w", f.ID, err)
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

// Delete removes a food document.
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

// unmarshalFood accepts both the bare object and the one-element array
// that JSON.GET and JSON.MGET produce for "$" paths.
func unmarshalFood(data []byte) (domfood.Food, error) {
	if len(data) > 0 && data[0] == '[' {
		var docs []domfood.Food
		if err := json.Unmarshal(data, &docs); err != nil {
			return domfood.Food{}, fmt.Errorf("unmarshal food: %w", err)
		}
		if len(docs) == 0 {
			return domfood.Food{}, fmt.Errorf("empty food document")
		}
		return docs[0], nil
	}

	var f domfood.Food
	if err := json.Unmarshal(data, &f); err != nil {
		return domfood.Food{}, fmt.Errorf("unmarshal food: %w", err)
	}
	return f, nil
}
