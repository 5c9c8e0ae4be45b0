// Package chi implements the HTTP API: the flattened food search, food
// and restaurant CRUD, runtime configuration administration, and the
// health and metrics endpoints.
package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mealradar/mealradar/internal/domain"
	domfood "github.com/mealradar/mealradar/internal/domain/food"
	domres "github.com/mealradar/mealradar/internal/domain/restaurant"
	fooduc "github.com/mealradar/mealradar/internal/usecase/food"
	healthuc "github.com/mealradar/mealradar/internal/usecase/health"
	restaurantuc "github.com/mealradar/mealradar/internal/usecase/restaurant"
	configuc "github.com/mealradar/mealradar/internal/usecase/runtimeconfig"
	searchuc "github.com/mealradar/mealradar/internal/usecase/search"
)

// Server holds the API handlers.
type Server struct {
	search        *searchuc.Service
	foods         *fooduc.Service
	restaurants   *restaurantuc.Service
	runtimeConfig *configuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	foods *fooduc.Service,
	restaurants *restaurantuc.Service,
	runtimeConfig *configuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:        search,
		foods:         foods,
		restaurants:   restaurants,
		runtimeConfig: runtimeConfig,
		health:        health,
		logger:        logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, kindNotFound),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, kindValidation),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, kindUnauthorized),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusBadGateway, kindUpstream),
		storeErrorHandler,
	}
	return s
}

// Routes mounts every handler on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/foods/search", s.SearchFoods)
		r.Post("/foods/compare", s.CompareFoods)
		r.Get("/foods/{id}", s.GetFood)
		r.Put("/foods/{id}", s.UpsertFood)
		r.Delete("/foods/{id}", s.DeleteFood)

		r.Get("/restaurants", s.ListRestaurants)
		r.Get("/restaurants/{id}", s.GetRestaurant)
		r.Put("/restaurants/{id}", s.UpsertRestaurant)
		r.Delete("/restaurants/{id}", s.DeleteRestaurant)

		r.Get("/config", s.ListConfigEntries)
		r.Get("/config/{name}", s.GetConfigEntry)
		r.Put("/config/{name}", s.SetConfigEntry)
		r.Delete("/config/{name}", s.DeleteConfigEntry)
	})
}

// SearchFoods handles GET /api/v1/foods/search.
func (s *Server) SearchFoods(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, err.Error())
		return
	}

	result, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetFood handles GET /api/v1/foods/{id}.
func (s *Server) GetFood(w http.ResponseWriter, r *http.Request) {
	f, err := s.foods.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, f)
}

// CompareFoods handles POST /api/v1/foods/compare.
func (s *Server) CompareFoods(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cmp, err := s.foods.Compare(r.Context(), req.IDs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cmp)
}

// UpsertFood handles PUT /api/v1/foods/{id}.
func (s *Server) UpsertFood(w http.ResponseWriter, r *http.Request) {
	var f domfood.Food
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if f.ID != "" && f.ID != id {
		writeError(w, http.StatusBadRequest, kindValidation, "body id does not match path id")
		return
	}
	f.ID = id

	created, err := s.foods.Upsert(r.Context(), &f)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/api/v1/foods/%s", id))
	}
	writeJSON(w, status, f)
}

// DeleteFood handles DELETE /api/v1/foods/{id}.
func (s *Server) DeleteFood(w http.ResponseWriter, r *http.Request) {
	if err := s.foods.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRestaurants handles GET /api/v1/restaurants. This is the
// exact-count listing path; totals in the pagination envelope are
// authoritative.
func (s *Server) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	q, limit, skip, err := parseRestaurantQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, err.Error())
		return
	}

	result, err := s.restaurants.List(r.Context(), q, limit, skip)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetRestaurant handles GET /api/v1/restaurants/{id}.
func (s *Server) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := s.restaurants.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rest)
}

// UpsertRestaurant handles PUT /api/v1/restaurants/{id}.
func (s *Server) UpsertRestaurant(w http.ResponseWriter, r *http.Request) {
	var rest domres.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&rest); err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if rest.ID != "" && rest.ID != id {
		writeError(w, http.StatusBadRequest, kindValidation, "body id does not match path id")
		return
	}
	rest.ID = id

	created, err := s.restaurants.Upsert(r.Context(), &rest)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/api/v1/restaurants/%s", id))
	}
	writeJSON(w, status, rest)
}

// DeleteRestaurant handles DELETE /api/v1/restaurants/{id}.
func (s *Server) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	if err := s.restaurants.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListConfigEntries handles GET /api/v1/config.
func (s *Server) ListConfigEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.runtimeConfig.All(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// GetConfigEntry handles GET /api/v1/config/{name}.
func (s *Server) GetConfigEntry(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	value, err := s.runtimeConfig.Get(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"name": name, "value": value})
}

// SetConfigEntry handles PUT /api/v1/config/{name}. The read cache is
// invalidated before the response is written, so a subsequent search
// observes the new value.
func (s *Server) SetConfigEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "Invalid request body: "+err.Error())
		return
	}

	name := chi.URLParam(r, "name")
	created, err := s.runtimeConfig.Set(r.Context(), name, req.Value)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/api/v1/config/%s", name))
	}
	writeJSON(w, status, map[string]string{"name": name, "value": req.Value})
}

// DeleteConfigEntry handles DELETE /api/v1/config/{name}.
func (s *Server) DeleteConfigEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.runtimeConfig.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
