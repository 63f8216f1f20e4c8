// Package selector commits to one backend mode by probing candidates in order.
package selector

import (
	"context"
	"fmt"
	"time"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
)

// Selection is the outcome of one Select call. Backend is nil for ModeFallback.
type Selection struct {
	Mode     domain.BackendMode
	Backend  ports.Backend
	Attempts []domain.ProbeAttempt
}

// Selector probes Candidates in order and keeps the first that answers.
type Selector struct {
	Candidates   []ports.Backend
	ProbeTimeout time.Duration
	Metrics      ports.Metrics
	Logger       ports.Logger
}

// Select never fails: every probe error only moves selection to the next
// candidate, and ModeFallback is always reachable. With an empty credential
// no probe is attempted.
func (s *Selector) Select(ctx context.Context, cred domain.Credential) Selection {
	if cred.Empty() {
		s.log("no API key configured; using local fallback", nil)
		return Selection{Mode: domain.ModeFallback}
	}

	var attempts []domain.ProbeAttempt
	for _, backend := range s.Candidates {
		if backend == nil {
			continue
		}
		mode := backend.Mode()
		start := time.Now()
		err := s.probe(ctx, backend)
		attempt := domain.ProbeAttempt{
			Mode:    mode,
			OK:      err == nil,
			Elapsed: time.Since(start).Round(time.Millisecond).String(),
		}
		if s.Metrics != nil {
			s.Metrics.ObserveProbe(mode, err == nil)
		}
		if err != nil {
			attempt.Detail = cred.Redact(err.Error())
			attempts = append(attempts, attempt)
			s.log("backend probe failed", map[string]interface{}{"mode": string(mode), "error": attempt.Detail})
			continue
		}
		attempts = append(attempts, attempt)
		s.log("backend selected", map[string]interface{}{"mode": string(mode), "elapsed": attempt.Elapsed})
		return Selection{Mode: mode, Backend: backend, Attempts: attempts}
	}

	s.log("all backend probes failed; using local fallback", map[string]interface{}{"attempts": len(attempts)})
	return Selection{Mode: domain.ModeFallback, Attempts: attempts}
}

// probe runs one bounded connectivity check, converting panics to errors.
func (s *Selector) probe(ctx context.Context, backend ports.Backend) (err error) {
	timeout := s.ProbeTimeout
	if timeout <= 0 {
		timeout = domain.DefaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	op := fmt.Sprintf("probe %s", backend.Mode())
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewError(domain.KindProbeFailed, op, fmt.Sprintf("panic: %v", r), nil)
		}
	}()

	if probeErr := backend.Probe(probeCtx); probeErr != nil {
		return domain.NewError(domain.KindProbeFailed, op, "", probeErr)
	}
	return nil
}

func (s *Selector) log(msg string, fields map[string]interface{}) {
	if s.Logger == nil {
		return
	}
	s.Logger.Info(msg, fields)
}
