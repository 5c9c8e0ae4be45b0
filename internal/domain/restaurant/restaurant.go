// Package restaurant defines the restaurant entity, its GeoJSON location,
// and the public summary attached to flattened search hits.
package restaurant

import (
	"fmt"

	geompkg "github.com/twpayne/go-geom"

	"github.com/mealradar/mealradar/internal/domain/geo"
)

// Location is a GeoJSON-style point. Coordinates are always [lon, lat].
type Location struct {
	Type        string     `json:"type"` // always "Point"
	Coordinates [2]float64 `json:"coordinates"`
}

// NewLocation validates coordinates and builds a Point location.
func NewLocation(lon, lat float64) (Location, error) {
	if !geo.ValidateCoordinates(lat, lon) {
		return Location{}, fmt.Errorf("invalid coordinates [%g, %g]", lon, lat)
	}
	return Location{Type: "Point", Coordinates: [2]float64{lon, lat}}, nil
}

// Lon returns the longitude component.
func (l Location) Lon() float64 { return l.Coordinates[0] }

// Lat returns the latitude component.
func (l Location) Lat() float64 { return l.Coordinates[1] }

// Point converts the location to a go-geom point in XY (lon, lat) order.
func (l Location) Point() *geompkg.Point {
	return geompkg.NewPointFlat(geompkg.XY, []float64{l.Coordinates[0], l.Coordinates[1]})
}

// FromPoint builds a Location from a go-geom point.
func FromPoint(p *geompkg.Point) (Location, error) {
	if p == nil || len(p.FlatCoords()) < 2 {
		return Location{}, fmt.Errorf("point has no coordinates")
	}
	return NewLocation(p.X(), p.Y())
}

// ReviewSummary is the aggregate maintained by the review subsystem.
// Search reads it (min-rating OR semantics) but never mutates it.
type ReviewSummary struct {
	ReviewCount     int     `json:"reviewCount"`
	AvgTasteRating  float64 `json:"avgTasteRating"`
	AvgHealthRating float64 `json:"avgHealthRating"`
}

// OpeningHours is a weekday-keyed map of opening windows, e.g.
// "monday" -> "09:00-22:00". Kept open-form: upstream data is scraped.
type OpeningHours map[string]string

// Restaurant owns the relationship to its menu items, not their
// lifecycle: Menu holds food ids, and a food may appear on any number of
// menus. A restaurant with an empty menu is valid; it simply never
// surfaces in flattened search results.
type Restaurant struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	URL           string        `json:"url,omitempty"`
	Cuisine       string        `json:"cuisine,omitempty"`
	Location      Location      `json:"location"`
	HeroImageURL  string        `json:"heroImageUrl,omitempty"`
	Locality      string        `json:"locality,omitempty"`
	Region        string        `json:"region,omitempty"`
	OpeningHours  OpeningHours  `json:"openingHours,omitempty"`
	Rating        float64       `json:"rating"`
	ReviewSummary ReviewSummary `json:"reviewSummary"`
	Menu          []string      `json:"menu,omitempty"`
}

// Summary is the restaurant projection attached to each flattened food.
// It deliberately excludes the menu to avoid quadratic duplication.
type Summary struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	URL           string        `json:"url,omitempty"`
	Location      Location      `json:"location"`
	HeroImageURL  string        `json:"heroImageUrl,omitempty"`
	Locality      string        `json:"locality,omitempty"`
	Region        string        `json:"region,omitempty"`
	OpeningHours  OpeningHours  `json:"openingHours,omitempty"`
	Rating        float64       `json:"rating"`
	ReviewSummary ReviewSummary `json:"reviewSummary"`
}

// Summarize builds the public projection of the restaurant.
func (r *Restaurant) Summarize() Summary {
	return Summary{
		ID:            r.ID,
		Name:          r.Name,
		URL:           r.URL,
		Location:      r.Location,
		HeroImageURL:  r.HeroImageURL,
		Locality:      r.Locality,
		Region:        r.Region,
		OpeningHours:  r.OpeningHours,
		Rating:        r.Rating,
		ReviewSummary: r.ReviewSummary,
	}
}

// DistanceFrom returns the great-circle distance in meters between the
// restaurant and the given origin.
func (r *Restaurant) DistanceFrom(lat, lon float64) float64 {
	return geo.Haversine(lat, lon, r.Location.Lat(), r.Location.Lon())
}

// Query is the restaurant-level constraint set of a search or listing.
// Zero values mean "not applied".
type Query struct {
	Name      string   // case-insensitive substring
	Cuisine   string   // case-insensitive substring
	MinRating *float64 // matches direct rating OR review-summary taste/health
	IDs       []string // allow-list; empty means unrestricted
}

// WithDistance pairs a restaurant with its distance from a query origin.
type WithDistance struct {
	Restaurant     Restaurant
	DistanceMeters float64
}
