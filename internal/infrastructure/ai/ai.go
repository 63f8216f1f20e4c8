// Package ai provides the remote completion backends probed by the selector.
//
// Three backends share the ports.Backend contract:
//   - httpProvider: plain HTTP against the Gemini generateContent endpoint
//   - SDKBackend: single-turn generation through google.golang.org/genai
//   - AgentBackend: genai function calling over the emergency data views
//
// No backend ever includes the API key in an error, a log line or a reply.
package ai

import (
	"errors"
	"net/url"

	"github.com/doeshing/firewatch/internal/domain"
)

const probePrompt = "Reply with the single word OK."

// callError wraps a backend failure as KindBackendCallFailed with the
// credential scrubbed from the detail.
func callError(mode domain.BackendMode, op string, cred domain.Credential, err error) error {
	if err == nil {
		return nil
	}
	detail := cred.Redact(scrubURL(err).Error())
	return domain.NewError(domain.KindBackendCallFailed, string(mode)+"."+op, detail, nil)
}

// scrubURL drops the request URL from transport errors; it carries ?key=.
func scrubURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
