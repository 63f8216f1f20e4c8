// Package query orchestrates one question end to end: dispatch to the
// committed backend, local fallback on any failure, and the session transcript.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/doeshing/firewatch/internal/application/formatter"
	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
)

// Outcomes recorded for every answered question.
const (
	OutcomeRemote        = "remote"
	OutcomeLocal         = "local"
	OutcomeFallbackError = "fallback_after_error"
)

// Options wires a Router. Backend may be nil, in which case Mode is forced to
// ModeFallback.
type Options struct {
	Views          ports.ViewFetcher
	Formatter      *formatter.Formatter
	Backend        ports.Backend
	Mode           domain.BackendMode
	Preamble       string
	RequestTimeout time.Duration
	Metrics        ports.Metrics
	Logger         ports.Logger
	Now            func() time.Time
}

// Router answers questions for one session. Calls are serialised; the
// transcript lives in memory only.
type Router struct {
	views          ports.ViewFetcher
	formatter      *formatter.Formatter
	backend        ports.Backend
	mode           domain.BackendMode
	preamble       string
	requestTimeout time.Duration
	metrics        ports.Metrics
	logger         ports.Logger
	now            func() time.Time

	callMu  sync.Mutex
	histMu  sync.Mutex
	history []domain.ConversationEntry
}

// NewRouter builds a router with the mode committed by the selector.
func NewRouter(opts Options) *Router {
	mode := opts.Mode
	if opts.Backend == nil || !mode.Remote() {
		mode = domain.ModeFallback
		opts.Backend = nil
	}
	f := opts.Formatter
	if f == nil {
		f = formatter.New()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = domain.DefaultRequestTimeout
	}
	return &Router{
		views:          opts.Views,
		formatter:      f,
		backend:        opts.Backend,
		mode:           mode,
		preamble:       opts.Preamble,
		requestTimeout: timeout,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
		now:            now,
	}
}

// Mode reports the committed backend mode. It never changes.
func (r *Router) Mode() domain.BackendMode {
	return r.mode
}

// Query answers text. It never fails: blank input gets fixed guidance and any
// backend failure is answered from local data.
func (r *Router) Query(ctx context.Context, text string) string {
	req, ok := domain.NewQueryRequest(text)
	if !ok {
		return domain.EmptyInputGuidance
	}

	r.callMu.Lock()
	defer r.callMu.Unlock()

	start := time.Now()
	idx := r.appendEntry(domain.NewConversationEntry(req, r.mode, r.now()))

	response, fallback, outcome := r.dispatch(ctx, req)

	r.completeEntry(idx, response, fallback)
	if r.metrics != nil {
		r.metrics.ObserveQuery(r.mode, outcome, time.Since(start))
	}
	return response
}

func (r *Router) dispatch(ctx context.Context, req domain.QueryRequest) (string, bool, string) {
	if r.backend == nil {
		return r.local(ctx, req), false, OutcomeLocal
	}

	text, err := r.callBackend(ctx, req)
	if err == nil {
		return text, false, OutcomeRemote
	}

	kind := domain.KindOf(err)
	if kind == "" {
		kind = domain.KindBackendCallFailed
	}
	if r.metrics != nil {
		r.metrics.IncFallback(kind)
	}
	if r.logger != nil {
		r.logger.Warn("backend call failed; answering from local data", map[string]interface{}{
			"mode":  string(r.mode),
			"kind":  string(kind),
			"error": err.Error(),
		})
	}
	return diagnosticLabel(kind, r.mode) + "\n\n" + r.local(ctx, req), true, OutcomeFallbackError
}

// callBackend performs the remote call under the request timeout, turning
// panics and empty answers into BackendCallFailed errors.
func (r *Router) callBackend(ctx context.Context, req domain.QueryRequest) (text string, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.requestTimeout)
	defer cancel()

	op := fmt.Sprintf("query %s", r.mode)
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", domain.PanicError(op, rec)
		}
	}()

	prompt, err := renderGroundingPrompt(r.preamble, r.views.Overview(ctx), req.Text)
	if err != nil {
		return "", domain.NewError(domain.KindBackendCallFailed, op, "", err)
	}
	text, err = r.backend.Complete(ctx, ports.CompletionRequest{Prompt: prompt, Question: req.Text})
	if err != nil {
		if domain.KindOf(err) == "" {
			err = domain.NewError(domain.KindBackendCallFailed, op, "", err)
		}
		return "", err
	}
	if text == "" {
		return "", domain.NewError(domain.KindBackendCallFailed, op, "empty answer", nil)
	}
	return text, nil
}

// local renders the formatter answer; a panic there still yields text.
func (r *Router) local(ctx context.Context, req domain.QueryRequest) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			if r.logger != nil {
				r.logger.Error("local answer failed", domain.PanicError("format", rec), nil)
			}
			out = r.formatter.Help()
		}
	}()
	return r.formatter.Format(ctx, req, r.views)
}

func diagnosticLabel(kind domain.ErrorKind, mode domain.BackendMode) string {
	return fmt.Sprintf("> **Note:** %s backend unavailable (%s); answering from local emergency data.", mode.Label(), kind)
}

func (r *Router) appendEntry(entry domain.ConversationEntry) int {
	r.histMu.Lock()
	defer r.histMu.Unlock()
	r.history = append(r.history, entry)
	return len(r.history) - 1
}

func (r *Router) completeEntry(idx int, response string, fallback bool) {
	r.histMu.Lock()
	defer r.histMu.Unlock()
	// ClearHistory may have run while the call was in flight.
	if idx < len(r.history) {
		r.history[idx].Complete(response, fallback)
	}
}

// History returns a copy of the transcript, oldest first.
func (r *Router) History() []domain.ConversationEntry {
	r.histMu.Lock()
	defer r.histMu.Unlock()
	return append([]domain.ConversationEntry(nil), r.history...)
}

// ClearHistory empties the transcript.
func (r *Router) ClearHistory() {
	r.histMu.Lock()
	defer r.histMu.Unlock()
	r.history = nil
}
