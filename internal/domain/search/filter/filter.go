// Package filter describes store-level query predicates in a structured
// form that the db layer compiles to an FT.SEARCH query string. It covers
// restaurant-level constraints only; food-level filtering happens in
// memory after retrieval.
package filter

import "fmt"

// MaxConditionsPerGroup bounds each filter group.
const MaxConditionsPerGroup = 32

// Expression is a structured filter with must/should boolean semantics:
// every must condition is required, the should group matches as an OR.
type Expression struct {
	must   []Condition
	should []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, should: should}, nil
}

// Must returns the required conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the OR-group conditions.
func (e Expression) Should() []Condition { return e.should }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0
}

// GeoRadius bounds a GEO field to a circle around an origin point.
type GeoRadius struct {
	Lon          float64
	Lat          float64
	RadiusMeters float64
}

// Condition is a single predicate: a tag match against one or more
// values, a text substring match, a numeric range, or a geo radius.
type Condition struct {
	key       string
	matchAny  []string
	substring string
	rangeExpr *Range
	geo       *GeoRadius
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, value string) (Condition, error) {
	return NewMatchAny(key, value)
}

// NewMatchAny creates a tag condition matching any of the given values
// (an allow-list compiles to a single tag OR clause).
func NewMatchAny(key string, values ...string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if len(values) == 0 {
		return Condition{}, fmt.Errorf("at least one match value is required for key %q", key)
	}
	for _, v := range values {
		if v == "" {
			return Condition{}, fmt.Errorf("empty match value for key %q", key)
		}
	}
	return Condition{key: key, matchAny: values}, nil
}

// NewSubstring creates a case-insensitive text substring condition.
func NewSubstring(key, value string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if value == "" {
		return Condition{}, fmt.Errorf("substring value is required for key %q", key)
	}
	return Condition{key: key, substring: value}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// NewGeoRadius creates a geo radius condition on a GEO field.
func NewGeoRadius(key string, g GeoRadius) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if g.RadiusMeters <= 0 {
		return Condition{}, fmt.Errorf("geo radius must be positive for key %q", key)
	}
	return Condition{key: key, geo: &g}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// MatchValues returns the tag match values.
func (c Condition) MatchValues() []string { return c.matchAny }

// Substring returns the text substring value.
func (c Condition) Substring() string { return c.substring }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// Geo returns the geo radius expression.
func (c Condition) Geo() *GeoRadius { return c.geo }

// IsMatch reports whether this is a tag match condition.
func (c Condition) IsMatch() bool { return len(c.matchAny) > 0 }

// IsSubstring reports whether this is a text substring condition.
func (c Condition) IsSubstring() bool { return c.substring != "" }

// IsRange reports whether this is a numeric range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// IsGeo reports whether this is a geo radius condition.
func (c Condition) IsGeo() bool { return c.geo != nil }

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// GTE creates an inclusive lower-bound range.
func GTE(v float64) Range { return Range{gte: &v} }

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTEBound returns the lower inclusive bound.
func (r Range) GTEBound() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }
