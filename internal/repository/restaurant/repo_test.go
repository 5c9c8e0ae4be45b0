package restaurant

import (
	"context"
	"errors"
	"testing"

	"github.com/mealradar/mealradar/internal/db"
	"github.com/mealradar/mealradar/internal/domain"
	domres "github.com/mealradar/mealradar/internal/domain/restaurant"
	"github.com/mealradar/mealradar/internal/domain/search/filter"
)

func TestFindNearby_NearestFirst(t *testing.T) {
	repo, ms := newTestRepo(t)

	// Store order is far, near, mid relative to the origin at (0, 0).
	far := testRestaurant(t, "far", 0.05, 0)
	near := testRestaurant(t, "near", 0.005, 0)
	mid := testRestaurant(t, "mid", 0.02, 0)

	ms.searchFn = func(_ context.Context, q *db.ListQuery) (*db.SearchResult, error) {
		if q.IndexName != indexName {
			t.Errorf("index = %q, want %q", q.IndexName, indexName)
		}
		if q.Limit != 120 {
			t.Errorf("fetch limit = %d, want 120", q.Limit)
		}
		return &db.SearchResult{
			Total: 3,
			Entries: []db.SearchEntry{
				searchEntry(t, far),
				searchEntry(t, near),
				searchEntry(t, mid),
			},
		}, nil
	}

	got, err := repo.FindNearby(context.Background(), 0, 0, 10000, domres.Query{}, 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 restaurants, got %d", len(got))
	}

	wantOrder := []string{"near", "mid", "far"}
	for i, want := range wantOrder {
		if got[i].Restaurant.ID != want {
			t.Errorf("position %d = %q, want %q", i, got[i].Restaurant.ID, want)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].DistanceMeters < got[i-1].DistanceMeters {
			t.Errorf("distances not ascending at %d: %g < %g",
				i, got[i].DistanceMeters, got[i-1].DistanceMeters)
		}
	}
}

func TestFindNearby_SkipsMalformedEntries(t *testing.T) {
	repo, ms := newTestRepo(t)

	ok := testRestaurant(t, "r1", 1, 1)
	ms.searchFn = func(_ context.Context, _ *db.ListQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 3,
			Entries: []db.SearchEntry{
				{Key: keyPrefix + "broken", Fields: map[string]string{"$": "{not json"}},
				searchEntry(t, ok),
				{Key: keyPrefix + "nodoc", Fields: map[string]string{}},
			},
		}, nil
	}

	got, err := repo.FindNearby(context.Background(), 1, 1, 500, domres.Query{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Restaurant.ID != "r1" {
		t.Errorf("expected only r1 to survive, got %+v", got)
	}
}

func TestFindNearby_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchFn = func(_ context.Context, _ *db.ListQuery) (*db.SearchResult, error) {
		return nil, errors.New("connection reset")
	}

	if _, err := repo.FindNearby(context.Background(), 0, 0, 500, domres.Query{}, 10); err == nil {
		t.Error("expected error to propagate")
	}
}

func TestList_CountAndPage(t *testing.T) {
	repo, ms := newTestRepo(t)

	r1 := testRestaurant(t, "r1", 1, 1)
	searched := false
	ms.countFn = func(_ context.Context, index string, _ filter.Expression) (int, error) {
		if index != indexName {
			t.Errorf("count index = %q", index)
		}
		return 7, nil
	}
	ms.searchFn = func(_ context.Context, q *db.ListQuery) (*db.SearchResult, error) {
		searched = true
		if q.Offset != 5 || q.Limit != 2 {
			t.Errorf("offset/limit = %d/%d, want 5/2", q.Offset, q.Limit)
		}
		return &db.SearchResult{Total: 7, Entries: []db.SearchEntry{searchEntry(t, r1)}}, nil
	}

	got, total, err := repo.List(context.Background(), domres.Query{}, 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !searched {
		t.Error("expected search after count")
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Errorf("items = %+v", got)
	}
}

func TestList_OffsetPastTotal(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.countFn = func(_ context.Context, _ string, _ filter.Expression) (int, error) {
		return 3, nil
	}
	ms.searchFn = func(_ context.Context, _ *db.ListQuery) (*db.SearchResult, error) {
		t.Fatal("search must not run when offset is past the total")
		return nil, nil
	}

	got, total, err := repo.List(context.Background(), domres.Query{}, 10, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(got) != 0 {
		t.Errorf("got %d items, total %d; want 0 items, total 3", len(got), total)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.jsonGetFn = func(_ context.Context, key string, _ ...string) ([]byte, error) {
		if key != keyPrefix+"missing" {
			t.Errorf("key = %q", key)
		}
		return nil, db.ErrKeyNotFound
	}

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)

	want := testRestaurant(t, "r1", 13.4132, 52.5219)
	ms.jsonGetFn = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return jsonGetDoc(t, want), nil
	}

	got, err := repo.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID || got.Name != want.Name || got.Location != want.Location {
		t.Errorf("round trip changed restaurant:\n got %+v\nwant %+v", got, want)
	}
}

func TestUpsert_CreatedFlag(t *testing.T) {
	repo, ms := newTestRepo(t)

	r := testRestaurant(t, "r1", 1, 1)
	exists := false
	ms.existsFn = func(_ context.Context, _ string) (bool, error) {
		return exists, nil
	}
	ms.jsonSetFn = func(_ context.Context, key, path string, data []byte) error {
		if key != keyPrefix+"r1" || path != "$" {
			t.Errorf("set key/path = %q/%q", key, path)
		}
		if len(data) == 0 {
			t.Error("empty document written")
		}
		return nil
	}

	created, err := repo.Upsert(context.Background(), &r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("first write should report created")
	}

	exists = true
	created, err = repo.Upsert(context.Background(), &r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("overwrite should not report created")
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.existsFn = func(_ context.Context, _ string) (bool, error) {
		return false, nil
	}
	ms.delFn = func(_ context.Context, _ string) error {
		t.Fatal("del must not run for a missing key")
		return nil
	}

	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBuildExpression_MinRatingIsShouldGroup(t *testing.T) {
	min := 4.0
	expr, err := buildExpression(domres.Query{
		IDs:       []string{"r1"},
		Name:      "pasta",
		MinRating: &min,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(expr.Must()) != 2 {
		t.Errorf("must conditions = %d, want 2 (ids, name)", len(expr.Must()))
	}
	if len(expr.Should()) != 3 {
		t.Errorf("should conditions = %d, want 3 (rating or-group)", len(expr.Should()))
	}
}
