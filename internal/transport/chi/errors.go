package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mealradar/mealradar/internal/db"
	"github.com/mealradar/mealradar/internal/domain"
)

// Error kinds of the public API. Stable strings; clients switch on them.
const (
	kindBadRequest   = "BAD_REQUEST"
	kindValidation   = "VALIDATION_FAILED"
	kindNotFound     = "NOT_FOUND"
	kindUnauthorized = "UNAUTHORIZED"
	kindUpstream     = "UPSTREAM_UNAVAILABLE"
	kindInternal     = "INTERNAL"
)

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Kind: kind, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrValidation,
		domain.ErrStoreUnavailable,
		domain.ErrUnauthorized,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	var dbErr *db.Error
	if errors.As(err, &dbErr) {
		return domain.ErrStoreUnavailable.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, kind string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, kind, msg)
		return true
	}
}

// storeErrorHandler maps low-level store failures to UPSTREAM_UNAVAILABLE.
// Key-not-found is a domain concern and never reaches this handler raw.
func storeErrorHandler(w http.ResponseWriter, err error, msg string) bool {
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		return false
	}
	writeError(w, http.StatusBadGateway, kindUpstream, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, kindInternal, "internal error")
}
