package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/mealradar/mealradar/internal/domain"
	"github.com/mealradar/mealradar/internal/domain/food"
	"github.com/mealradar/mealradar/internal/domain/restaurant"
	"github.com/mealradar/mealradar/internal/domain/search/filterset"
)

type mockResolver struct {
	resolveFn func(ctx context.Context, prompt string) filterset.Fragment
}

func (m *mockResolver) Resolve(ctx context.Context, prompt string) filterset.Fragment {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, prompt)
	}
	return filterset.Fragment{}
}

type mockFinder struct {
	findFn func(
		ctx context.Context, lat, lon, radiusMeters float64,
		q restaurant.Query, fetchLimit int,
	) ([]restaurant.WithDistance, error)
}

func (m *mockFinder) FindNearby(
	ctx context.Context, lat, lon, radiusMeters float64,
	q restaurant.Query, fetchLimit int,
) ([]restaurant.WithDistance, error) {
	if m.findFn != nil {
		return m.findFn(ctx, lat, lon, radiusMeters, q, fetchLimit)
	}
	return nil, nil
}

type mockMenus struct {
	getMultiFn func(ctx context.Context, ids []string) ([]food.Food, error)
}

func (m *mockMenus) GetMulti(ctx context.Context, ids []string) ([]food.Food, error) {
	if m.getMultiFn != nil {
		return m.getMultiFn(ctx, ids)
	}
	return nil, nil
}

func testTuning() Tuning {
	return Tuning{
		DefaultPageSize:     40,
		MaxPageSize:         100,
		OverFetchMultiplier: 3,
		MaxCandidates:       1000,
	}
}

func newTestService(r *mockResolver, f *mockFinder, m *mockMenus) *Service {
	return NewService(r, f, m, testTuning(), zap.NewNop())
}

func candidate(t *testing.T, id string, distance float64, menu ...string) restaurant.WithDistance {
	t.Helper()
	loc, err := restaurant.NewLocation(0, 0)
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	return restaurant.WithDistance{
		Restaurant: restaurant.Restaurant{
			ID:       id,
			Name:     "Restaurant " + id,
			Location: loc,
			Menu:     menu,
		},
		DistanceMeters: distance,
	}
}

func TestSearch_InvalidCoordinates(t *testing.T) {
	svc := newTestService(&mockResolver{}, &mockFinder{}, &mockMenus{})

	_, err := svc.Search(context.Background(), Query{Lat: 95, Lon: 0, MaxDistanceMeters: 1000})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestSearch_ZeroRadiusShortCircuits(t *testing.T) {
	r := &mockResolver{resolveFn: func(_ context.Context, _ string) filterset.Fragment {
		t.Fatal("resolver must not run for a non-positive radius")
		return filterset.Fragment{}
	}}
	f := &mockFinder{findFn: func(
		_ context.Context, _, _, _ float64, _ restaurant.Query, _ int,
	) ([]restaurant.WithDistance, error) {
		t.Fatal("finder must not run for a non-positive radius")
		return nil, nil
	}}
	svc := newTestService(r, f, &mockMenus{})

	res, err := svc.Search(context.Background(), Query{
		Lat: 52.52, Lon: 13.41, MaxDistanceMeters: 0, Prompt: "anything",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Data) != 0 {
		t.Errorf("items = %+v, want none", res.Data)
	}
	if res.Meta.TotalItems != 0 || res.Meta.HasMore {
		t.Errorf("pagination = %+v", res.Meta)
	}
}

func TestSearch_FlattensNearestFirstInMenuOrder(t *testing.T) {
	f := &mockFinder{findFn: func(
		_ context.Context, _, _, _ float64, _ restaurant.Query, _ int,
	) ([]restaurant.WithDistance, error) {
		return []restaurant.WithDistance{
			candidate(t, "near", 200, "soup", "stew"),
			candidate(t, "far", 900, "soup", "salad"),
		}, nil
	}}
	m := &mockMenus{getMultiFn: func(_ context.Context, ids []string) ([]food.Food, error) {
		// Menu ids are deduplicated across candidates.
		want := []string{"soup", "stew", "salad"}
		if len(ids) != len(want) {
			t.Errorf("ids = %v, want %v", ids, want)
		}
		return []food.Food{
			{ID: "soup", Name: "Soup"},
			{ID: "stew", Name: "Stew"},
			{ID: "salad", Name: "Salad"},
		}, nil
	}}
	svc := newTestService(&mockResolver{}, f, m)

	res, err := svc.Search(context.Background(), Query{
		Lat: 52.52, Lon: 13.41, MaxDistanceMeters: 2000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type hit struct{ food, rest string }
	want := []hit{
		{"soup", "near"}, {"stew", "near"},
		{"soup", "far"}, {"salad", "far"},
	}
	if len(res.Data) != len(want) {
		t.Fatalf("got %d items, want %d", len(res.Data), len(want))
	}
	for i, w := range want {
		it := res.Data[i]
		if it.Food.ID != w.food || it.Restaurant.ID != w.rest {
			t.Errorf("item %d = %s@%s, want %s@%s",
				i, it.Food.ID, it.Restaurant.ID, w.food, w.rest)
		}
	}
	if res.Data[0].DistanceMeters != 200 || res.Data[2].DistanceMeters != 900 {
		t.Errorf("distances not carried: %+v", res.Data)
	}
}

func TestSearch_AppliesFoodFilters(t *testing.T) {
	f := &mockFinder{findFn: func(
		_ context.Context, _, _, _ float64, _ restaurant.Query, _ int,
	) ([]restaurant.WithDistance, error) {
		return []restaurant.WithDistance{candidate(t, "r1", 100, "f1", "f2")}, nil
	}}
	m := &mockMenus{getMultiFn: func(_ context.Context, _ []string) ([]food.Food, error) {
		return []food.Food{
			{ID: "f1", Name: "Vegan Bowl", Diet: food.DietaryPreferences{Vegan: true}},
			{ID: "f2", Name: "Steak"},
		}, nil
	}}
	svc := newTestService(&mockResolver{}, f, m)

	vegan := true
	res, err := svc.Search(context.Background(), Query{
		Lat: 52.52, Lon: 13.41, MaxDistanceMeters: 2000,
		Filters: filterset.FilterSet{Diet: filterset.DietFlags{Vegan: &vegan}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Data) != 1 || res.Data[0].Food.ID != "f1" {
		t.Errorf("items = %+v, want only the vegan bowl", res.Data)
	}
}

func TestSearch_MergesPromptFragment(t *testing.T) {
	r := &mockResolver{resolveFn: func(_ context.Context, prompt string) filterset.Fragment {
		if prompt != "something vegan" {
			t.Errorf("prompt = %q", prompt)
		}
		v := true
		return filterset.Fragment{Diet: filterset.DietFlags{Vegan: &v}}
	}}
	f := &mockFinder{findFn: func(
		_ context.Context, _, _, _ float64, _ restaurant.Query, _ int,
	) ([]restaurant.WithDistance, error) {
		return []restaurant.WithDistance{candidate(t, "r1", 100, "f1", "f2")}, nil
	}}
	m := &mockMenus{getMultiFn: func(_ context.Context, _ []string) ([]food.Food, error) {
		return []food.Food{
			{ID: "f1", Diet: food.DietaryPreferences{Vegan: true}},
			{ID: "f2"},
		}, nil
	}}
	svc := newTestService(r, f, m)

	res, err := svc.Search(context.Background(), Query{
		Lat: 52.52, Lon: 13.41, MaxDistanceMeters: 2000, Prompt: "something vegan",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Data) != 1 || res.Data[0].Food.ID != "f1" {
		t.Errorf("items = %+v, want the derived vegan filter applied", res.Data)
	}
}

func TestSearch_ExplicitFilterWinsOverFragment(t *testing.T) {
	r := &mockResolver{resolveFn: func(_ context.Context, _ string) filterset.Fragment {
		v := true
		return filterset.Fragment{Diet: filterset.DietFlags{Vegan: &v}}
	}}
	f := &mockFinder{findFn: func(
		_ context.Context, _, _, _ float64, _ restaurant.Query, _ int,
	) ([]restaurant.WithDistance, error) {
		return []restaurant.WithDistance{candidate(t, "r1", 100, "f1", "f2")}, nil
	}}
	m := &mockMenus{getMultiFn: func(_ context.Context, _ []string) ([]food.Food, error) {
		return []food.Food{
			{ID: "f1", Diet: food.DietaryPreferences{Vegan: true}},
			{ID: "f2"},
		}, nil
	}}
	svc := newTestService(r, f, m)

	notVegan := false
	res, err := svc.Search(context.Background(), Query{
		Lat: 52.52, Lon: 13.41, MaxDistanceMeters: 2000, Prompt: "vegan please",
		Filters: filterset.FilterSet{Diet: filterset.DietFlags{Vegan: &notVegan}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Data) != 1 || res.Data[0].Food.ID != "f2" {
		t.Errorf("items = %+v, explicit vegan=false should override the fragment", res.Data)
	}
}

func TestSearch_SkipsDanglingMenuIDs(t *testing.T) {
	f := &mockFinder{findFn: func(
		_ context.Context, _, _, _ float64, _ restaurant.Query, _ int,
	) ([]restaurant.WithDistance, error) {
		return []restaurant.WithDistance{candidate(t, "r1", 100, "f1", "deleted", "f2")}, nil
	}}
	m := &mockMenus{getMultiFn: func(_ context.Context, _ []string) ([]food.Food, error) {
		return []food.Food{{ID: "f1"}, {ID: "f2"}}, nil
	}}
	svc := newTestService(&mockResolver{}, f, m)

	res, err := svc.Search(context.Background(), Query{
		Lat: 52.52, Lon: 13.41, MaxDistanceMeters: 2000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Data) != 2 {
		t.Errorf("items = %+v, dangling id should be skipped silently", res.Data)
	}
}

func TestSearch_WindowedPagination(t *testing.T) {
	menu := make([]string, 10)
	foods := make([]food.Food, 10)
	for i := range menu {
		id := string(rune('a' + i))
		menu[i] = id
		foods[i] = food.Food{ID: id}
	}

	f := &mockFinder{findFn: func(
		_ context.Context, _, _, _ float64, _ restaurant.Query, fetchLimit int,
	) ([]restaurant.WithDistance, error) {
		// limit 4, skip 4, multiplier 3.
		if fetchLimit != 24 {
			t.Errorf("fetchLimit = %d, want 24", fetchLimit)
		}
		return []restaurant.WithDistance{candidate(t, "r1", 100, menu...)}, nil
	}}
	m := &mockMenus{getMultiFn: func(_ context.Context, _ []string) ([]food.Food, error) {
		return foods, nil
	}}
	svc := newTestService(&mockResolver{}, f, m)

	res, err := svc.Search(context.Background(), Query{
		Lat: 52.52, Lon: 13.41, MaxDistanceMeters: 2000, Limit: 4, Skip: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Data) != 4 {
		t.Fatalf("got %d items, want 4", len(res.Data))
	}
	if res.Data[0].Food.ID != "e" || res.Data[3].Food.ID != "h" {
		t.Errorf("window = %s..%s, want e..h", res.Data[0].Food.ID, res.Data[3].Food.ID)
	}
	if res.Meta.TotalItems != 10 {
		t.Errorf("TotalItems = %d, want observed 10", res.Meta.TotalItems)
	}
	if !res.Meta.HasMore {
		t.Error("expected HasMore: window extends past this page")
	}
}

func TestSearch_RestaurantIDsReachFinder(t *testing.T) {
	f := &mockFinder{findFn: func(
		_ context.Context, _, _, _ float64, q restaurant.Query, _ int,
	) ([]restaurant.WithDistance, error) {
		if len(q.IDs) != 2 || q.IDs[0] != "r1" || q.IDs[1] != "r2" {
			t.Errorf("finder ids = %v", q.IDs)
		}
		return nil, nil
	}}
	svc := newTestService(&mockResolver{}, f, &mockMenus{})

	_, err := svc.Search(context.Background(), Query{
		Lat: 52.52, Lon: 13.41, MaxDistanceMeters: 2000,
		Filters: filterset.FilterSet{RestaurantIDs: []string{"r1", "r2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_FinderErrorPropagates(t *testing.T) {
	f := &mockFinder{findFn: func(
		_ context.Context, _, _, _ float64, _ restaurant.Query, _ int,
	) ([]restaurant.WithDistance, error) {
		return nil, errors.New("index missing")
	}}
	svc := newTestService(&mockResolver{}, f, &mockMenus{})

	if _, err := svc.Search(context.Background(), Query{
		Lat: 52.52, Lon: 13.41, MaxDistanceMeters: 2000,
	}); err == nil {
		t.Error("expected error to propagate")
	}
}

func TestFetchLimit_Bounds(t *testing.T) {
	svc := newTestService(&mockResolver{}, &mockFinder{}, &mockMenus{})

	if got := svc.fetchLimit(40, 0); got != 120 {
		t.Errorf("fetchLimit(40, 0) = %d, want 120", got)
	}
	if got := svc.fetchLimit(100, 900); got != 1000 {
		t.Errorf("deep page should cap at MaxCandidates, got %d", got)
	}
}
