package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
)

// contentGenerator is the slice of *genai.Models the backends use.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type connectFunc func(ctx context.Context) (contentGenerator, error)

func genaiConnector(cred domain.Credential, httpClient *http.Client) connectFunc {
	return func(ctx context.Context) (contentGenerator, error) {
		if cred.Empty() {
			return nil, fmt.Errorf("missing API key")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     cred.Reveal(),
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, fmt.Errorf("create genai client: %w", err)
		}
		return client.Models, nil
	}
}

// genaiSession connects on first use and keeps the client afterwards.
// A failed connect is retried on the next call.
type genaiSession struct {
	mu      sync.Mutex
	connect connectFunc
	gen     contentGenerator
}

func (s *genaiSession) generator(ctx context.Context) (contentGenerator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != nil {
		return s.gen, nil
	}
	gen, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	s.gen = gen
	return gen, nil
}

// GenAIOptions configures the SDK and agent backends.
type GenAIOptions struct {
	Model      string
	Credential domain.Credential
	HTTPClient *http.Client
}

// SDKBackend answers with one GenerateContent call per question.
type SDKBackend struct {
	model   string
	cred    domain.Credential
	session *genaiSession
}

// NewSDKBackend builds the vendor-SDK backend. The genai client is created on
// the first probe.
func NewSDKBackend(opts GenAIOptions) *SDKBackend {
	return newSDKBackend(opts.Model, opts.Credential, genaiConnector(opts.Credential, opts.HTTPClient))
}

func newSDKBackend(model string, cred domain.Credential, connect connectFunc) *SDKBackend {
	return &SDKBackend{
		model:   valueOrDefault(model, domain.DefaultGeminiModel),
		cred:    cred,
		session: &genaiSession{connect: connect},
	}
}

func (b *SDKBackend) Mode() domain.BackendMode {
	return domain.ModeVendorSDK
}

func (b *SDKBackend) Probe(ctx context.Context) error {
	_, err := b.generate(ctx, "probe", probePrompt)
	return err
}

func (b *SDKBackend) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	return b.generate(ctx, "complete", req.Prompt)
}

func (b *SDKBackend) generate(ctx context.Context, op, prompt string) (string, error) {
	gen, err := b.session.generator(ctx)
	if err != nil {
		return "", callError(b.Mode(), op, b.cred, err)
	}
	resp, err := gen.GenerateContent(ctx, b.model, genai.Text(prompt), nil)
	if err != nil {
		return "", callError(b.Mode(), op, b.cred, err)
	}
	text, err := responseText(resp)
	if err != nil {
		return "", callError(b.Mode(), op, b.cred, err)
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("nil response")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty completion text")
	}
	return text, nil
}

var _ ports.Backend = (*SDKBackend)(nil)
