package ports

import "context"

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// SMSSender delivers a text message and returns the provider message id.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}
