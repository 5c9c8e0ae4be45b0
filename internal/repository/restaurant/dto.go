package restaurant

import (
	"encoding/json"
	"fmt"

	"github.com/mealradar/mealradar/internal/db"
	domres "github.com/mealradar/mealradar/internal/domain/restaurant"
)

// storedRestaurant is the persisted document shape. It carries the
// domain entity plus a flattened "lon,lat" geo string, which is what the
// GEO index field type expects; the GeoJSON location stays authoritative.
type storedRestaurant struct {
	domres.Restaurant
	Geo string `json:"geo"`
}

func marshalRestaurant(r *domres.Restaurant) ([]byte, error) {
	doc := storedRestaurant{
		Restaurant: *r,
		Geo:        fmt.Sprintf("%g,%g", r.Location.Lon(), r.Location.Lat()),
	}
	return json.Marshal(doc)
}

// unmarshalRestaurant decodes a stored document. JSON.GET with a "$"
// path wraps the document in a one-element array; FT.SEARCH returns the
// bare object. Both shapes are accepted.
func unmarshalRestaurant(data []byte) (domres.Restaurant, error) {
	if len(data) > 0 && data[0] == '[' {
		var docs []storedRestaurant
		if err := json.Unmarshal(data, &docs); err != nil {
			return domres.Restaurant{}, fmt.Errorf("unmarshal restaurant: %w", err)
		}
		if len(docs) == 0 {
			return domres.Restaurant{}, fmt.Errorf("empty restaurant document")
		}
		return docs[0].Restaurant, nil
	}

	var doc storedRestaurant
	if err := json.Unmarshal(data, &doc); err != nil {
		return domres.Restaurant{}, fmt.Errorf("unmarshal restaurant: %w", err)
	}
	return doc.Restaurant, nil
}

func parseEntry(entry db.SearchEntry) (domres.Restaurant, error) {
	raw, ok := entry.Fields["$"]
	if !ok {
		return domres.Restaurant{}, fmt.Errorf("entry %s: missing document field", entry.Key)
	}
	return unmarshalRestaurant([]byte(raw))
}
