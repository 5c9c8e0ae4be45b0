package redis

import (
	"testing"

	"github.com/mealradar/mealradar/internal/domain/search/filter"
)

func mustCond(t *testing.T, c filter.Condition, err error) filter.Condition {
	t.Helper()
	if err != nil {
		t.Fatalf("building condition: %v", err)
	}
	return c
}

func TestBuildFilter_Empty(t *testing.T) {
	if got := buildFilter(filter.Expression{}); got != "" {
		t.Errorf("empty expression should compile to empty string, got %q", got)
	}
}

func TestBuildFilter_TagAllowList(t *testing.T) {
	c, err := filter.NewMatchAny("id", "r1", "r2", "r3")
	cond := mustCond(t, c, err)
	expr, _ := filter.NewExpression([]filter.Condition{cond}, nil)

	got := buildFilter(expr)
	want := "@id:{r1 | r2 | r3}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFilter_TagEscaping(t *testing.T) {
	c, err := filter.NewMatch("id", "r-1.a")
	cond := mustCond(t, c, err)
	expr, _ := filter.NewExpression([]filter.Condition{cond}, nil)

	got := buildFilter(expr)
	want := `@id:{r\-1\.a}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFilter_Substring(t *testing.T) {
	c, err := filter.NewSubstring("name", "tikka")
	cond := mustCond(t, c, err)
	expr, _ := filter.NewExpression([]filter.Condition{cond}, nil)

	got := buildFilter(expr)
	want := "@name:(*tikka*)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFilter_SubstringEscapesSpaces(t *testing.T) {
	c, err := filter.NewSubstring("name", "pad thai")
	cond := mustCond(t, c, err)
	expr, _ := filter.NewExpression([]filter.Condition{cond}, nil)

	got := buildFilter(expr)
	want := `@name:(*pad\ thai*)`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFilter_NumericBounds(t *testing.T) {
	gte := 4.0
	lt := 5.0
	r, err := filter.NewRangeFilter(nil, &gte, &lt, nil)
	if err != nil {
		t.Fatalf("range filter: %v", err)
	}
	c, cerr := filter.NewRange("rating", r)
	cond := mustCond(t, c, cerr)
	expr, _ := filter.NewExpression([]filter.Condition{cond}, nil)

	got := buildFilter(expr)
	want := "@rating:[4 (5]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFilter_NumericOpenEnded(t *testing.T) {
	c, err := filter.NewRange("rating", filter.GTE(3.5))
	cond := mustCond(t, c, err)
	expr, _ := filter.NewExpression([]filter.Condition{cond}, nil)

	got := buildFilter(expr)
	want := "@rating:[3.5 +inf]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFilter_GeoRadius(t *testing.T) {
	c, err := filter.NewGeoRadius("location", filter.GeoRadius{
		Lon: 13.4132, Lat: 52.5219, RadiusMeters: 2000,
	})
	cond := mustCond(t, c, err)
	expr, _ := filter.NewExpression([]filter.Condition{cond}, nil)

	got := buildFilter(expr)
	want := "@location:[13.4132 52.5219 2000 m]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFilter_MustAndShould(t *testing.T) {
	geoC, err := filter.NewGeoRadius("location", filter.GeoRadius{
		Lon: 1, Lat: 2, RadiusMeters: 500,
	})
	geo := mustCond(t, geoC, err)
	idsC, err := filter.NewMatchAny("id", "a", "b")
	ids := mustCond(t, idsC, err)
	r1C, err := filter.NewRange("rating", filter.GTE(4))
	r1 := mustCond(t, r1C, err)
	r2C, err := filter.NewRange("review_taste", filter.GTE(4))
	r2 := mustCond(t, r2C, err)

	expr, err := filter.NewExpression(
		[]filter.Condition{geo, ids},
		[]filter.Condition{r1, r2},
	)
	if err != nil {
		t.Fatalf("new expression: %v", err)
	}

	got := buildFilter(expr)
	want := "@location:[1 2 500 m] @id:{a | b} (@rating:[4 +inf] | @review_taste:[4 +inf])"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
