package restaurant

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mealradar/mealradar/internal/db"
	domres "github.com/mealradar/mealradar/internal/domain/restaurant"
	"github.com/mealradar/mealradar/internal/domain/search/filter"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn     func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn     func(ctx context.Context, key string, paths ...string) ([]byte, error)
	delFn         func(ctx context.Context, key string) error
	existsFn      func(ctx context.Context, key string) (bool, error)
	searchFn      func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	countFn       func(ctx context.Context, index string, filters filter.Expression) (int, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Search(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Count(ctx context.Context, index string, filters filter.Expression) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, index, filters)
	}
	return 0, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testRestaurant(t *testing.T, id string, lon, lat float64) domres.Restaurant {
	t.Helper()
	loc, err := domres.NewLocation(lon, lat)
	if err != nil {
		t.Fatalf("test location: %v", err)
	}
	return domres.Restaurant{
		ID:       id,
		Name:     "Restaurant " + id,
		Location: loc,
		Rating:   4.0,
		Menu:     []string{id + "-food"},
	}
}

// searchEntry serializes a restaurant the way FT.SEARCH RETURN $ does.
func searchEntry(t *testing.T, r domres.Restaurant) db.SearchEntry {
	t.Helper()
	data, err := marshalRestaurant(&r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return db.SearchEntry{Key: keyPrefix + r.ID, Fields: map[string]string{"$": string(data)}}
}

// jsonGetDoc serializes a restaurant the way JSON.GET "$" does (wrapped
// in a one-element array).
func jsonGetDoc(t *testing.T, r domres.Restaurant) []byte {
	t.Helper()
	doc, err := marshalRestaurant(&r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	wrapped, err := json.Marshal([]json.RawMessage{doc})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	return wrapped
}
