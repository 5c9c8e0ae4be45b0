package chi

import (
	"fmt"
	"net/url"
	"strconv"

	domres "github.com/mealradar/mealradar/internal/domain/restaurant"
	"github.com/mealradar/mealradar/internal/domain/search/filterset"
	searchuc "github.com/mealradar/mealradar/internal/usecase/search"
)

// parseSearchQuery maps the flattened search query string onto the
// engine query. Coordinate and paging parameters are strict (a malformed
// value rejects the request); filter parameters follow the lenient
// compiler contract and silently drop what does not parse.
func parseSearchQuery(values url.Values) (searchuc.Query, error) {
	lat, err := requireFloat(values, "lat")
	if err != nil {
		return searchuc.Query{}, err
	}
	lon, err := requireFloat(values, "lon")
	if err != nil {
		return searchuc.Query{}, err
	}

	maxDistance, err := requireFloat(values, "maxDistanceMeters")
	if err != nil {
		return searchuc.Query{}, err
	}

	limit, err := optionalInt(values, "limit")
	if err != nil {
		return searchuc.Query{}, err
	}
	skip, err := optionalInt(values, "skip")
	if err != nil {
		return searchuc.Query{}, err
	}

	return searchuc.Query{
		Lat:               lat,
		Lon:               lon,
		MaxDistanceMeters: maxDistance,
		Limit:             limit,
		Skip:              skip,
		Prompt:            values.Get("prompt"),
		Filters:           filterset.Compile(flattenValues(values), values.Get("restaurantIds")),
	}, nil
}

// parseRestaurantQuery maps listing parameters onto the restaurant query.
func parseRestaurantQuery(values url.Values) (domres.Query, int, int, error) {
	limit, err := optionalInt(values, "limit")
	if err != nil {
		return domres.Query{}, 0, 0, err
	}
	skip, err := optionalInt(values, "skip")
	if err != nil {
		return domres.Query{}, 0, 0, err
	}

	q := domres.Query{
		Name:    values.Get("name"),
		Cuisine: values.Get("cuisine"),
	}

	if raw := values.Get("minRating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domres.Query{}, 0, 0, fmt.Errorf("minRating must be a number, got %q", raw)
		}
		q.MinRating = &v
	}

	return q, limit, skip, nil
}

// flattenValues keeps the first value of each query parameter, which is
// the shape the filter compiler expects.
func flattenValues(values url.Values) map[string]string {
	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}
	return params
}

func requireFloat(values url.Values, name string) (float64, error) {
	raw := values.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	return v, nil
}

func optionalInt(values url.Values, name string) (int, error) {
	raw := values.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}
