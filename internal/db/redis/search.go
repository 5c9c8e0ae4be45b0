package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/mealradar/mealradar/internal/db"
	"github.com/mealradar/mealradar/internal/domain/search/filter"
)

// Search runs a filtered, offset-paginated FT.SEARCH.
func (s *Store) Search(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	queryStr := buildFilter(q.Filters)
	if queryStr == "" {
		queryStr = "*"
	}

	args := []string{q.IndexName, queryStr}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseSearchResult(raw)
}

// Count returns the exact match count via FT.SEARCH with LIMIT 0 0.
func (s *Store) Count(ctx context.Context, index string, filters filter.Expression) (int, error) {
	queryStr := buildFilter(filters)
	if queryStr == "" {
		queryStr = "*"
	}

	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(index, queryStr, "LIMIT", "0", "0", "DIALECT", "2").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{Total: 0}, nil
	}

	entries := make([]db.SearchEntry, 0, len(raw)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Filter building ---

// buildFilter translates filter.Expression into an FT.SEARCH query string.
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}

	var parts []string

	for _, cond := range expr.Must() {
		parts = append(parts, buildCondition(cond))
	}

	if shouldParts := buildShouldGroup(expr.Should()); shouldParts != "" {
		parts = append(parts, shouldParts)
	}

	return strings.Join(parts, " ")
}

func buildCondition(cond filter.Condition) string {
	switch {
	case cond.IsMatch():
		return buildTagFilter(cond.Key(), cond.MatchValues())
	case cond.IsSubstring():
		return buildSubstringFilter(cond.Key(), cond.Substring())
	case cond.IsRange():
		return buildNumericFilter(cond.Key(), *cond.Range())
	case cond.IsGeo():
		return buildGeoFilter(cond.Key(), *cond.Geo())
	default:
		return ""
	}
}

func buildShouldGroup(conditions []filter.Condition) string {
	if len(conditions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		parts = append(parts, buildCondition(cond))
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func buildTagFilter(key string, values []string) string {
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		escaped = append(escaped, tagEscaper.Replace(v))
	}
	return fmt.Sprintf("@%s:{%s}", key, strings.Join(escaped, " | "))
}

// buildSubstringFilter emits an infix wildcard TEXT match; TEXT fields
// are case-insensitive, which gives the documented substring semantics.
func buildSubstringFilter(key, value string) string {
	return fmt.Sprintf("@%s:(*%s*)", key, escapeQuery(value))
}

func buildNumericFilter(key string, r filter.Range) string {
	minBound := "-inf"
	maxBound := "+inf"

	if r.GT() != nil {
		minBound = fmt.Sprintf("(%g", *r.GT())
	} else if r.GTEBound() != nil {
		minBound = fmt.Sprintf("%g", *r.GTEBound())
	}

	if r.LT() != nil {
		maxBound = fmt.Sprintf("(%g", *r.LT())
	} else if r.LTE() != nil {
		maxBound = fmt.Sprintf("%g", *r.LTE())
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

func buildGeoFilter(key string, g filter.GeoRadius) string {
	return fmt.Sprintf("@%s:[%g %g %g m]", key, g.Lon, g.Lat, g.RadiusMeters)
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	` `, `\ `,
)
