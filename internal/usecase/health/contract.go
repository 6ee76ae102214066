package health

import "context"

// StorePinger checks budget store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// SummarizerChecker checks summarizer provider availability.
type SummarizerChecker interface {
	HealthCheck(ctx context.Context) error
}
