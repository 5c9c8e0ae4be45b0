// Package food defines the menu-item entity and its filter-matching rules.
package food

import (
	"strings"

	"github.com/mealradar/mealradar/internal/domain/search/filterset"
)

// Allergens is the fixed record of allergen flags on a food. Absence in
// upstream data is false, never "unknown".
type Allergens struct {
	Milk     bool `json:"milk"`
	Egg      bool `json:"egg"`
	Wheat    bool `json:"wheat"`
	Soy      bool `json:"soy"`
	Fish     bool `json:"fish"`
	Peanuts  bool `json:"peanuts"`
	TreeNuts bool `json:"treeNuts"`
}

// DietaryPreferences is the fixed record of diet flags on a food.
type DietaryPreferences struct {
	GlutenFree    bool `json:"glutenFree"`
	NutFree       bool `json:"nutFree"`
	Sesame        bool `json:"sesame"`
	Vegan         bool `json:"vegan"`
	Vegetarian    bool `json:"vegetarian"`
	Halal         bool `json:"halal"`
	Kosher        bool `json:"kosher"`
	Mediterranean bool `json:"mediterranean"`
	Carnivore     bool `json:"carnivore"`
	Keto          bool `json:"keto"`
	LowCarb       bool `json:"lowCarb"`
	Paleo         bool `json:"paleo"`
}

// Nutrition holds optional per-serving nutritional values. Nil means the
// value is unknown for this food.
type Nutrition struct {
	CaloriesKcal *float64 `json:"caloriesKcal,omitempty"`
	ProteinG     *float64 `json:"proteinG,omitempty"`
	CarbsG       *float64 `json:"carbsG,omitempty"`
	FatG         *float64 `json:"fatG,omitempty"`
	SugarG       *float64 `json:"sugarG,omitempty"`
	SodiumMg     *float64 `json:"sodiumMg,omitempty"`
	FiberG       *float64 `json:"fiberG,omitempty"`
}

// Food is a single menu item. It has no intrinsic location or distance;
// those belong to the (food, restaurant, query origin) triple produced by
// the search engine. ItemType is an open string: upstream data introduces
// new values and must not be rejected.
type Food struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Categories   []string           `json:"categories,omitempty"`
	ItemType     string             `json:"itemType"`
	ImageURL     string             `json:"imageUrl,omitempty"`
	Allergens    Allergens          `json:"allergies"`
	Diet         DietaryPreferences `json:"dietaryPreferences"`
	Nutrition    Nutrition          `json:"nutritionalInformation"`
	HealthRating float64            `json:"healthRating"`
	TasteRating  float64            `json:"tasteRating"`
}

// MatchesFilter reports whether the food satisfies every constraint in the
// filter set. Flags combine with AND: one mismatched flag excludes the
// food regardless of the rest. Range bounds are inclusive. Name matching
// is a case-insensitive substring test; itemType is a case-insensitive
// exact match. Restaurant-level constraints (ids) are not checked here.
func (f *Food) MatchesFilter(fs filterset.FilterSet) bool {
	if fs.Name != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(fs.Name)) {
		return false
	}
	if fs.ItemType != "" && !strings.EqualFold(f.ItemType, fs.ItemType) {
		return false
	}
	if !f.matchesAllergens(fs.Allergens) || !f.matchesDiet(fs.Diet) {
		return false
	}
	if !fs.HealthRating.IsZero() && !fs.HealthRating.Contains(f.HealthRating) {
		return false
	}
	if !fs.TasteRating.IsZero() && !fs.TasteRating.Contains(f.TasteRating) {
		return false
	}
	if !fs.Calories.IsZero() {
		// A calorie filter requires a known calorie value.
		if f.Nutrition.CaloriesKcal == nil || !fs.Calories.Contains(*f.Nutrition.CaloriesKcal) {
			return false
		}
	}
	return true
}

func (f *Food) matchesAllergens(a filterset.AllergenFlags) bool {
	return flagMatches(a.Milk, f.Allergens.Milk) &&
		flagMatches(a.Egg, f.Allergens.Egg) &&
		flagMatches(a.Wheat, f.Allergens.Wheat) &&
		flagMatches(a.Soy, f.Allergens.Soy) &&
		flagMatches(a.Fish, f.Allergens.Fish) &&
		flagMatches(a.Peanuts, f.Allergens.Peanuts) &&
		flagMatches(a.TreeNuts, f.Allergens.TreeNuts)
}

func (f *Food) matchesDiet(d filterset.DietFlags) bool {
	return flagMatches(d.GlutenFree, f.Diet.GlutenFree) &&
		flagMatches(d.NutFree, f.Diet.NutFree) &&
		flagMatches(d.Sesame, f.Diet.Sesame) &&
		flagMatches(d.Vegan, f.Diet.Vegan) &&
		flagMatches(d.Vegetarian, f.Diet.Vegetarian) &&
		flagMatches(d.Halal, f.Diet.Halal) &&
		flagMatches(d.Kosher, f.Diet.Kosher) &&
		flagMatches(d.Mediterranean, f.Diet.Mediterranean) &&
		flagMatches(d.Carnivore, f.Diet.Carnivore) &&
		flagMatches(d.Keto, f.Diet.Keto) &&
		flagMatches(d.LowCarb, f.Diet.LowCarb) &&
		flagMatches(d.Paleo, f.Diet.Paleo)
}

// flagMatches applies one tri-state filter flag: unspecified always
// passes, a specified flag must equal the food's value exactly.
func flagMatches(want *bool, got bool) bool {
	return want == nil || *want == got
}
