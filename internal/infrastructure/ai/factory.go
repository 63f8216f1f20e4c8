package ai

import (
	"fmt"
	"net/http"
	"time"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
)

// Factory builds the ordered remote backend candidates from configuration.
// It keeps one HTTP client shared by every backend.
type Factory struct {
	httpClient *http.Client
	views      ports.ViewFetcher
}

// NewFactory creates a factory whose agent backend reads from views.
func NewFactory(views ports.ViewFetcher, requestTimeout time.Duration) *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: requestTimeout},
		views:      views,
	}
}

// ForMode builds the backend for one remote mode.
func (f *Factory) ForMode(mode domain.BackendMode, cfg domain.Config, cred domain.Credential) (ports.Backend, error) {
	genaiOpts := GenAIOptions{Model: cfg.ModelFor(mode), Credential: cred, HTTPClient: f.httpClient}

	switch mode {
	case domain.ModeDirectAPI:
		return NewDirectClient(DirectOptions{
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.ModelFor(mode),
			Credential:  cred,
			HTTPClient:  f.httpClient,
			MinInterval: cfg.MinRequestInterval(),
		}), nil
	case domain.ModeVendorSDK:
		return NewSDKBackend(genaiOpts), nil
	case domain.ModeAgentFramework:
		return NewAgentBackend(AgentOptions{
			GenAIOptions: genaiOpts,
			Incident:     cfg.Incident.Name,
			MaxToolTurns: cfg.AI.MaxToolTurns,
		}, f.views)
	default:
		return nil, fmt.Errorf("unsupported backend mode: %s", mode)
	}
}

// Candidates returns the configured backends in probe order.
func (f *Factory) Candidates(cfg domain.Config, cred domain.Credential) ([]ports.Backend, error) {
	order := cfg.BackendOrder()
	backends := make([]ports.Backend, 0, len(order))
	for _, mode := range order {
		backend, err := f.ForMode(mode, cfg, cred)
		if err != nil {
			return nil, err
		}
		backends = append(backends, backend)
	}
	return backends, nil
}
