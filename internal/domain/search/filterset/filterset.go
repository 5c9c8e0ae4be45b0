// Package filterset defines the normalized, request-scoped set of food
// search constraints and the rules for building and merging it.
package filterset

// AllergenFlags is the fixed record of allergen filters. A nil field means
// the filter is not applied; false is a real constraint ("must not be
// flagged for this allergen"), never a default.
type AllergenFlags struct {
	Milk     *bool
	Egg      *bool
	Wheat    *bool
	Soy      *bool
	Fish     *bool
	Peanuts  *bool
	TreeNuts *bool
}

// DietFlags is the fixed record of dietary-preference filters, tri-state
// like AllergenFlags.
type DietFlags struct {
	GlutenFree    *bool
	NutFree       *bool
	Sesame        *bool
	Vegan         *bool
	Vegetarian    *bool
	Halal         *bool
	Kosher        *bool
	Mediterranean *bool
	Carnivore     *bool
	Keto          *bool
	LowCarb       *bool
	Paleo         *bool
}

// Range is a numeric filter with optional inclusive bounds.
// Both bounds nil means "not applied", never a zero-width interval.
type Range struct {
	Min *float64
	Max *float64
}

// IsZero reports whether the range carries no bounds.
func (r Range) IsZero() bool { return r.Min == nil && r.Max == nil }

// Contains reports whether v satisfies the range, bounds inclusive.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// FilterSet is the normalized set of active search constraints.
// Zero values mean "not applied" throughout.
type FilterSet struct {
	Name          string // case-insensitive substring on the food name
	ItemType      string // case-insensitive match on the food item type
	Allergens     AllergenFlags
	Diet          DietFlags
	HealthRating  Range
	TasteRating   Range
	Calories      Range
	RestaurantIDs []string // allow-list; empty means unrestricted
}

// IsEmpty reports whether no food-level constraint is set.
func (f FilterSet) IsEmpty() bool {
	return f.Name == "" && f.ItemType == "" &&
		f.Allergens == (AllergenFlags{}) && f.Diet == (DietFlags{}) &&
		f.HealthRating.IsZero() && f.TasteRating.IsZero() && f.Calories.IsZero() &&
		len(f.RestaurantIDs) == 0
}

// Fragment is a partial FilterSet derived from free-text intent.
// Every field is optional; an all-zero Fragment is the fail-soft result
// of an unavailable or unparseable language-model response.
type Fragment struct {
	FoodName     string
	ItemType     string
	Allergens    AllergenFlags
	Diet         DietFlags
	HealthRating Range
	TasteRating  Range
	Calories     Range
}

// IsEmpty reports whether the fragment carries no constraint at all.
func (f Fragment) IsEmpty() bool {
	return f.FoodName == "" && f.ItemType == "" &&
		f.Allergens == (AllergenFlags{}) && f.Diet == (DietFlags{}) &&
		f.HealthRating.IsZero() && f.TasteRating.IsZero() && f.Calories.IsZero()
}

// Merge combines explicit filters with an AI-derived fragment.
// Precedence holds independently per field: an explicit value wins
// verbatim, an absent explicit value takes the fragment's value, and a
// field neither side provides stays absent. No defaults are synthesized
// here; those belong to the caller.
func Merge(explicit FilterSet, frag Fragment) FilterSet {
	out := explicit

	if out.Name == "" {
		out.Name = frag.FoodName
	}
	if out.ItemType == "" {
		out.ItemType = frag.ItemType
	}

	out.Allergens = mergeAllergens(out.Allergens, frag.Allergens)
	out.Diet = mergeDiet(out.Diet, frag.Diet)

	if out.HealthRating.IsZero() {
		out.HealthRating = frag.HealthRating
	}
	if out.TasteRating.IsZero() {
		out.TasteRating = frag.TasteRating
	}
	if out.Calories.IsZero() {
		out.Calories = frag.Calories
	}

	return out
}

func mergeAllergens(a, b AllergenFlags) AllergenFlags {
	return AllergenFlags{
		Milk:     pick(a.Milk, b.Milk),
		Egg:      pick(a.Egg, b.Egg),
		Wheat:    pick(a.Wheat, b.Wheat),
		Soy:      pick(a.Soy, b.Soy),
		Fish:     pick(a.Fish, b.Fish),
		Peanuts:  pick(a.Peanuts, b.Peanuts),
		TreeNuts: pick(a.TreeNuts, b.TreeNuts),
	}
}

func mergeDiet(a, b DietFlags) DietFlags {
	return DietFlags{
		GlutenFree:    pick(a.GlutenFree, b.GlutenFree),
		NutFree:       pick(a.NutFree, b.NutFree),
		Sesame:        pick(a.Sesame, b.Sesame),
		Vegan:         pick(a.Vegan, b.Vegan),
		Vegetarian:    pick(a.Vegetarian, b.Vegetarian),
		Halal:         pick(a.Halal, b.Halal),
		Kosher:        pick(a.Kosher, b.Kosher),
		Mediterranean: pick(a.Mediterranean, b.Mediterranean),
		Carnivore:     pick(a.Carnivore, b.Carnivore),
		Keto:          pick(a.Keto, b.Keto),
		LowCarb:       pick(a.LowCarb, b.LowCarb),
		Paleo:         pick(a.Paleo, b.Paleo),
	}
}

func pick(explicit, derived *bool) *bool {
	if explicit != nil {
		return explicit
	}
	return derived
}
