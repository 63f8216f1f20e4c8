package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

type httpProvider struct {
	mode       domain.BackendMode
	model      string
	baseURL    string
	cred       domain.Credential
	httpClient *http.Client
	limiter    *rate.Limiter
	adapter    providerAdapter
}

type providerAdapter struct {
	endpoint      func(baseURL, model string, cred domain.Credential) string
	buildRequest  func(prompt string) ([]byte, error)
	parseResponse func([]byte) (string, error)
}

// DirectOptions configures the direct HTTP backend.
type DirectOptions struct {
	BaseURL     string
	Model       string
	Credential  domain.Credential
	HTTPClient  *http.Client
	MinInterval time.Duration
}

// NewDirectClient builds the direct-API backend. Requests are spaced at least
// MinInterval apart.
func NewDirectClient(opts DirectOptions) ports.Backend {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultRequestTimeout}
	}
	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	return &httpProvider{
		mode:       domain.ModeDirectAPI,
		model:      valueOrDefault(opts.Model, domain.DefaultGeminiModel),
		baseURL:    opts.BaseURL,
		cred:       opts.Credential,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
		adapter:    geminiAdapter(),
	}
}

func (p *httpProvider) Mode() domain.BackendMode {
	return p.mode
}

func (p *httpProvider) Probe(ctx context.Context) error {
	_, err := p.generate(ctx, "probe", probePrompt)
	return err
}

func (p *httpProvider) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	return p.generate(ctx, "complete", req.Prompt)
}

func (p *httpProvider) generate(ctx context.Context, op, prompt string) (string, error) {
	text, err := p.roundTrip(ctx, prompt)
	if err != nil {
		return "", callError(p.mode, op, p.cred, err)
	}
	return text, nil
}

func (p *httpProvider) roundTrip(ctx context.Context, prompt string) (string, error) {
	if p.cred.Empty() {
		return "", fmt.Errorf("missing API key")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	requestBody, err := p.adapter.buildRequest(prompt)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	endpoint := p.adapter.endpoint(p.baseURL, p.model, p.cred)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	setGeminiHeaders(httpReq)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", scrubURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned %s", p.model, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	return p.adapter.parseResponse(body)
}

var _ ports.Backend = (*httpProvider)(nil)
