package food

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mealradar/mealradar/internal/db"
	"github.com/mealradar/mealradar/internal/domain"
	domfood "github.com/mealradar/mealradar/internal/domain/food"
)

type mockStore struct {
	jsonSetFn  func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn  func(ctx context.Context, key string, paths ...string) ([]byte, error)
	jsonMGetFn func(ctx context.Context, path string, keys []string) ([][]byte, error)
	delFn      func(ctx context.Context, key string) error
	existsFn   func(ctx context.Context, key string) (bool, error)
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

func (m *mockStore) JSONMGet(ctx context.Context, path string, keys []string) ([][]byte, error) {
	if m.jsonMGetFn != nil {
		return m.jsonMGetFn(ctx, path, keys)
	}
	return nil, nil
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

func mustDoc(t *testing.T, f domfood.Food) []byte {
	t.Helper()
	doc, err := json.Marshal([]domfood.Food{f})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return doc
}

func TestGetMulti_SkipsMissingAndMalformed(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms)

	f1 := domfood.Food{ID: "f1", Name: "Ramen"}
	f3 := domfood.Food{ID: "f3", Name: "Udon"}

	ms.jsonMGetFn = func(_ context.Context, path string, keys []string) ([][]byte, error) {
		if path != "$" {
			t.Errorf("path = %q, want $", path)
		}
		want := []string{keyPrefix + "f1", keyPrefix + "f2", keyPrefix + "f3", keyPrefix + "f4"}
		if len(keys) != len(want) {
			t.Fatalf("keys = %v", keys)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("key[%d] = %q, want %q", i, keys[i], want[i])
			}
		}
		return [][]byte{
			mustDoc(t, f1),
			nil, // dangling menu reference
			mustDoc(t, f3),
			[]byte("{broken"),
		}, nil
	}

	got, err := repo.GetMulti(context.Background(), []string{"f1", "f2", "f3", "f4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "f1" || got[1].ID != "f3" {
		t.Errorf("got %+v, want f1 and f3", got)
	}
}

func TestGetMulti_EmptyInput(t *testing.T) {
	ms := &mockStore{
		jsonMGetFn: func(_ context.Context, _ string, _ []string) ([][]byte, error) {
			t.Fatal("mget must not run for empty input")
			return nil, nil
		},
	}
	repo := New(ms)

	got, err := repo.GetMulti(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no foods, got %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(&mockStore{})

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms)

	want := domfood.Food{ID: "f1", Name: "Pho", ItemType: "main course", TasteRating: 4.6}
	ms.jsonGetFn = func(_ context.Context, key string, _ ...string) ([]byte, error) {
		if key != keyPrefix+"f1" {
			t.Errorf("key = %q", key)
		}
		return mustDoc(t, want), nil
	}

	got, err := repo.Get(context.Background(), "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID || got.Name != want.Name || got.TasteRating != want.TasteRating {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestUpsert_CreatedFlag(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms)

	exists := false
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return exists, nil }

	f := domfood.Food{ID: "f1", Name: "Laksa"}
	created, err := repo.Upsert(context.Background(), &f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("first write should report created")
	}

	exists = true
	created, err = repo.Upsert(context.Background(), &f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("overwrite should not report created")
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := New(&mockStore{})

	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
