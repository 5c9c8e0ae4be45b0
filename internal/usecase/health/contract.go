package health

import "context"

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IntentChecker checks intent provider availability.
type IntentChecker interface {
	HealthCheck(ctx context.Context) error
}
