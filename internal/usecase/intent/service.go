// Package intent turns a free-text dining request into a partial filter
// set. Resolution is strictly best-effort: provider errors, timeouts,
// and malformed responses all collapse to an empty fragment so the
// search proceeds on explicit filters alone.
package intent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mealradar/mealradar/internal/domain/search/filterset"
)

// Service resolves natural-language prompts into filter fragments.
type Service struct {
	completer completer
	prompts   promptSource
	timeout   time.Duration
	logger    *zap.Logger
}

// NewService creates an intent resolution service. timeout bounds each
// provider call independently of the request deadline.
func NewService(c completer, prompts promptSource, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{completer: c, prompts: prompts, timeout: timeout, logger: logger}
}

// Resolve extracts a filter fragment from the prompt. Never returns an
// error; any failure yields the empty fragment.
func (s *Service) Resolve(ctx context.Context, prompt string) filterset.Fragment {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return filterset.Fragment{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	system := s.systemPrompt(ctx)

	raw, err := s.completer.Complete(ctx, system, prompt)
	if err != nil {
		s.logger.Warn("Intent resolution failed, proceeding without derived filters",
			zap.Error(err),
		)
		return filterset.Fragment{}
	}

	frag, err := parseFragment(raw)
	if err != nil {
		s.logger.Warn("Intent response unparseable, proceeding without derived filters",
			zap.String("response", raw),
			zap.Error(err),
		)
		return filterset.Fragment{}
	}

	return frag
}

// systemPrompt prefers the runtime config entry over the built-in
// default. A cache read failure falls back to the default rather than
// failing resolution.
func (s *Service) systemPrompt(ctx context.Context) string {
	tmpl, ok, err := s.prompts.Get(ctx, PromptEntryName)
	if err != nil {
		s.logger.Warn("Config entry lookup failed, using built-in prompt", zap.Error(err))
		return defaultSystemPrompt
	}
	if !ok || strings.TrimSpace(tmpl) == "" {
		return defaultSystemPrompt
	}
	return tmpl
}

// wireFragment mirrors the JSON contract of the system prompt. Pointer
// fields distinguish "absent" from zero values.
type wireFragment struct {
	FoodName string     `json:"foodName"`
	ItemType string     `json:"itemType"`
	Allergy  wireFlags  `json:"allergies"`
	Diet     wireDiet   `json:"dietaryPreferences"`
	Health   *wireRange `json:"healthRating"`
	Taste    *wireRange `json:"tasteRating"`
	Calories *wireRange `json:"calories"`
}

type wireFlags struct {
	Milk     *bool `json:"milk"`
	Egg      *bool `json:"egg"`
	Wheat    *bool `json:"wheat"`
	Soy      *bool `json:"soy"`
	Fish     *bool `json:"fish"`
	Peanuts  *bool `json:"peanuts"`
	TreeNuts *bool `json:"treeNuts"`
}

type wireDiet struct {
	GlutenFree    *bool `json:"glutenFree"`
	NutFree       *bool `json:"nutFree"`
	Sesame        *bool `json:"sesame"`
	Vegan         *bool `json:"vegan"`
	Vegetarian    *bool `json:"vegetarian"`
	Halal         *bool `json:"halal"`
	Kosher        *bool `json:"kosher"`
	Mediterranean *bool `json:"mediterranean"`
	Carnivore     *bool `json:"carnivore"`
	Keto          *bool `json:"keto"`
	LowCarb       *bool `json:"lowCarb"`
	Paleo         *bool `json:"paleo"`
}

type wireRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

func parseFragment(raw string) (filterset.Fragment, error) {
	var w wireFragment
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return filterset.Fragment{}, err
	}

	return filterset.Fragment{
		FoodName: strings.TrimSpace(w.FoodName),
		ItemType: strings.TrimSpace(w.ItemType),
		Allergens: filterset.AllergenFlags{
			Milk:     w.Allergy.Milk,
			Egg:      w.Allergy.Egg,
			Wheat:    w.Allergy.Wheat,
			Soy:      w.Allergy.Soy,
			Fish:     w.Allergy.Fish,
			Peanuts:  w.Allergy.Peanuts,
			TreeNuts: w.Allergy.TreeNuts,
		},
		Diet: filterset.DietFlags{
			GlutenFree:    w.Diet.GlutenFree,
			NutFree:       w.Diet.NutFree,
			Sesame:        w.Diet.Sesame,
			Vegan:         w.Diet.Vegan,
			Vegetarian:    w.Diet.Vegetarian,
			Halal:         w.Diet.Halal,
			Kosher:        w.Diet.Kosher,
			Mediterranean: w.Diet.Mediterranean,
			Carnivore:     w.Diet.Carnivore,
			Keto:          w.Diet.Keto,
			LowCarb:       w.Diet.LowCarb,
			Paleo:         w.Diet.Paleo,
		},
		HealthRating: toRange(w.Health),
		TasteRating:  toRange(w.Taste),
		Calories:     toRange(w.Calories),
	}, nil
}

func toRange(w *wireRange) filterset.Range {
	if w == nil {
		return filterset.Range{}
	}
	return filterset.Range{Min: w.Min, Max: w.Max}
}
