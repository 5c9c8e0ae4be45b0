package runtimeconfig

import "context"

// repo is the configuration entry persistence contract.
type repo interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) (bool, error)
	Delete(ctx context.Context, name string) error
	All(ctx context.Context) (map[string]string, error)
}

// invalidator drops the in-memory config snapshot.
type invalidator interface {
	Invalidate()
}
