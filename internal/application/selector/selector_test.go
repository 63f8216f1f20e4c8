package selector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/infrastructure/ai"
	"github.com/doeshing/firewatch/internal/pkg/logger"
	"github.com/doeshing/firewatch/internal/ports"
)

type stubBackend struct {
	mode   domain.BackendMode
	err    error
	panics bool
	block  bool
	probes int
}

func (b *stubBackend) Mode() domain.BackendMode { return b.mode }

func (b *stubBackend) Probe(ctx context.Context) error {
	b.probes++
	if b.panics {
		panic("sdk exploded")
	}
	if b.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return b.err
}

func (b *stubBackend) Complete(context.Context, ports.CompletionRequest) (string, error) {
	return "", nil
}

type probeCounter struct {
	ok, failed map[domain.BackendMode]int
}

func newProbeCounter() *probeCounter {
	return &probeCounter{ok: map[domain.BackendMode]int{}, failed: map[domain.BackendMode]int{}}
}

func (p *probeCounter) ObserveQuery(domain.BackendMode, string, time.Duration) {}
func (p *probeCounter) IncFallback(domain.ErrorKind)                          {}
func (p *probeCounter) IncRejectedQuery()                                     {}

func (p *probeCounter) ObserveProbe(mode domain.BackendMode, ok bool) {
	if ok {
		p.ok[mode]++
		return
	}
	p.failed[mode]++
}

var key = domain.NewCredential("secret-key-123")

func TestSelect_FirstHealthyWins(t *testing.T) {
	direct := &stubBackend{mode: domain.ModeDirectAPI, err: errors.New("HTTP 500")}
	sdk := &stubBackend{mode: domain.ModeVendorSDK}
	agent := &stubBackend{mode: domain.ModeAgentFramework}
	metrics := newProbeCounter()
	s := &Selector{Candidates: []ports.Backend{direct, sdk, agent}, Metrics: metrics, Logger: logger.NewTest(t)}

	sel := s.Select(context.Background(), key)

	assert.Equal(t, domain.ModeVendorSDK, sel.Mode)
	assert.Same(t, sdk, sel.Backend)
	assert.Equal(t, 0, agent.probes)
	require.Len(t, sel.Attempts, 2)
	assert.False(t, sel.Attempts[0].OK)
	assert.Contains(t, sel.Attempts[0].Detail, string(domain.KindProbeFailed))
	assert.True(t, sel.Attempts[1].OK)
	assert.Equal(t, 1, metrics.failed[domain.ModeDirectAPI])
	assert.Equal(t, 1, metrics.ok[domain.ModeVendorSDK])
}

func TestSelect_AllFailIsFallback(t *testing.T) {
	s := &Selector{Candidates: []ports.Backend{
		&stubBackend{mode: domain.ModeDirectAPI, err: errors.New("refused")},
		&stubBackend{mode: domain.ModeVendorSDK, panics: true},
		&stubBackend{mode: domain.ModeAgentFramework, err: errors.New("quota")},
	}}

	sel := s.Select(context.Background(), key)

	assert.Equal(t, domain.ModeFallback, sel.Mode)
	assert.Nil(t, sel.Backend)
	require.Len(t, sel.Attempts, 3)
	assert.Contains(t, sel.Attempts[1].Detail, "panic: sdk exploded")
}

func TestSelect_EmptyCredentialSkipsProbes(t *testing.T) {
	direct := &stubBackend{mode: domain.ModeDirectAPI}
	s := &Selector{Candidates: []ports.Backend{direct}}

	sel := s.Select(context.Background(), domain.Credential{})

	assert.Equal(t, domain.ModeFallback, sel.Mode)
	assert.Empty(t, sel.Attempts)
	assert.Equal(t, 0, direct.probes)
}

func TestSelect_ProbeIsBounded(t *testing.T) {
	slow := &stubBackend{mode: domain.ModeDirectAPI, block: true}
	s := &Selector{Candidates: []ports.Backend{slow}, ProbeTimeout: 30 * time.Millisecond}

	start := time.Now()
	sel := s.Select(context.Background(), key)

	assert.Equal(t, domain.ModeFallback, sel.Mode)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSelect_DetailNeverCarriesKey(t *testing.T) {
	leaky := &stubBackend{mode: domain.ModeDirectAPI, err: errors.New("bad key secret-key-123")}
	s := &Selector{Candidates: []ports.Backend{leaky}}

	sel := s.Select(context.Background(), key)

	require.Len(t, sel.Attempts, 1)
	assert.NotContains(t, sel.Attempts[0].Detail, "secret-key-123")
}

func TestSelect_DirectAPIServerErrorMovesToSDK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	direct := ai.NewDirectClient(ai.DirectOptions{BaseURL: srv.URL, Credential: key, HTTPClient: srv.Client()})
	sdk := &stubBackend{mode: domain.ModeVendorSDK}
	s := &Selector{Candidates: []ports.Backend{direct, sdk}, ProbeTimeout: 10 * time.Second}

	sel := s.Select(context.Background(), key)

	assert.Equal(t, domain.ModeVendorSDK, sel.Mode)
	require.Len(t, sel.Attempts, 2)
	assert.Equal(t, domain.ModeDirectAPI, sel.Attempts[0].Mode)
	assert.Contains(t, sel.Attempts[0].Detail, "500")
}
