package intent

import "context"

// completer is the chat-completion transport used for intent resolution.
type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// promptSource reads runtime configuration entries, served from the
// invalidating TTL cache.
type promptSource interface {
	Get(ctx context.Context, name string) (string, bool, error)
}
