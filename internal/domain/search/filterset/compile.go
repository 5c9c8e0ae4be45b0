package filterset

import (
	"math"
	"strconv"
	"strings"
)

// Flag parameter keys accepted by Compile. Dotted keys mirror the public
// query-parameter names; anything outside these records is ignored.
const (
	allergenPrefix = "allergies."
	dietPrefix     = "dietaryPreferences."
)

// Compile normalizes raw request parameters into a FilterSet.
//
// Every input is user-controlled text, so the compiler is lenient by
// contract: flag values other than the literal "true"/"false" are
// dropped, malformed numeric strings are treated as absent, and an empty
// restaurant-id list after trimming means "no restriction". Compile does
// no I/O and cannot fail.
func Compile(params map[string]string, restaurantIDs string) FilterSet {
	fs := FilterSet{
		Name:          params["name"],
		ItemType:      params["itemType"],
		HealthRating:  compileRange(params["healthRatingMin"], params["healthRatingMax"]),
		TasteRating:   compileRange(params["tasteRatingMin"], params["tasteRatingMax"]),
		Calories:      compileRange(params["caloriesKcalMin"], params["caloriesKcalMax"]),
		RestaurantIDs: splitIDs(restaurantIDs),
	}

	for key, value := range params {
		flag := parseFlag(value)
		if flag == nil {
			continue
		}
		switch {
		case strings.HasPrefix(key, allergenPrefix):
			setAllergen(&fs.Allergens, strings.TrimPrefix(key, allergenPrefix), flag)
		case strings.HasPrefix(key, dietPrefix):
			setDiet(&fs.Diet, strings.TrimPrefix(key, dietPrefix), flag)
		}
	}

	return fs
}

// parseFlag coerces only the literal strings "true" and "false".
// Anything else is dropped, not coerced and not defaulted.
func parseFlag(v string) *bool {
	switch v {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	default:
		return nil
	}
}

// compileRange builds a Range from numeric strings. A bound that fails to
// parse to a finite number is absent; if both bounds end up absent the
// whole range is omitted.
func compileRange(minStr, maxStr string) Range {
	return Range{Min: parseBound(minStr), Max: parseBound(maxStr)}
}

func parseBound(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// splitIDs splits a comma-separated id list, trimming whitespace and
// dropping empty entries. An empty result means "not provided".
func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

func setAllergen(a *AllergenFlags, key string, v *bool) {
	switch key {
	case "milk":
		a.Milk = v
	case "egg":
		a.Egg = v
	case "wheat":
		a.Wheat = v
	case "soy":
		a.Soy = v
	case "fish":
		a.Fish = v
	case "peanuts":
		a.Peanuts = v
	case "treeNuts":
		a.TreeNuts = v
	}
}

func setDiet(d *DietFlags, key string, v *bool) {
	switch key {
	case "glutenFree":
		d.GlutenFree = v
	case "nutFree":
		d.NutFree = v
	case "sesame":
		d.Sesame = v
	case "vegan":
		d.Vegan = v
	case "vegetarian":
		d.Vegetarian = v
	case "halal":
		d.Halal = v
	case "kosher":
		d.Kosher = v
	case "mediterranean":
		d.Mediterranean = v
	case "carnivore":
		d.Carnivore = v
	case "keto":
		d.Keto = v
	case "lowCarb":
		d.LowCarb = v
	case "paleo":
		d.Paleo = v
	}
}
