// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The query router, selector and view builder depend on
// these abstractions only, so the SQLite gateway, the Gemini backends, the metrics
// registry and the logger can all be swapped for stubs in tests.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/firewatch/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.firewatch/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Gateway executes read-only queries against the emergency database.
// Any statement whose first token is not SELECT is rejected before it reaches storage.
type Gateway interface {
	Execute(ctx context.Context, query string, args ...interface{}) ([]domain.Row, error)
	CustomQuery(ctx context.Context, query string) []domain.Row
	Close() error
}

// ViewFetcher builds domain views on demand. Building never fails; sections that
// could not be read are listed in the view's Unavailable field.
type ViewFetcher interface {
	Overview(ctx context.Context) domain.Overview
	Evacuees(ctx context.Context) domain.EvacueeStatus
	Zones(ctx context.Context) domain.ZoneStatus
	Resources(ctx context.Context) domain.ResourceStatus
	Search(ctx context.Context, term string) domain.SearchResult
}

// Backend is one remote AI completion strategy.
type Backend interface {
	Mode() domain.BackendMode
	// Probe performs a minimal connectivity check.
	Probe(ctx context.Context) error
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest carries the grounded prompt and the raw question.
type CompletionRequest struct {
	Prompt   string
	Question string
}

// Metrics records router and selector outcomes.
type Metrics interface {
	ObserveQuery(mode domain.BackendMode, outcome string, elapsed time.Duration)
	IncFallback(kind domain.ErrorKind)
	ObserveProbe(mode domain.BackendMode, ok bool)
	IncRejectedQuery()
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
