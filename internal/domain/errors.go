package domain

import "errors"

var (
	// ErrNotFound signals a missing resource (detail lookup, comparison).
	ErrNotFound = errors.New("not found")
	// ErrValidation signals malformed input rejected before the engine runs.
	ErrValidation = errors.New("validation failed")
	// ErrStoreUnavailable signals a document-store failure. Fatal to the request.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrIntentUnavailable signals a language-model failure. Never surfaced to
	// callers: the intent resolver collapses it into an empty filter fragment.
	ErrIntentUnavailable = errors.New("intent service unavailable")
	// ErrUnauthorized signals a missing or invalid API key.
	ErrUnauthorized = errors.New("unauthorized")
)

// KeyPrefix namespaces every store key written by this service.
const KeyPrefix = "mealradar:"
