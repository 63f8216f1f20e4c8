package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmptyInputGuidance is returned verbatim for blank questions.
const EmptyInputGuidance = "Please ask about the forest fire emergency situation."

// QueryRequest captures one user question.
type QueryRequest struct {
	Text string
}

// NewQueryRequest trims the raw text and reports whether anything remains.
func NewQueryRequest(raw string) (QueryRequest, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return QueryRequest{}, false
	}
	return QueryRequest{Text: text}, true
}

// Lower returns the lower-cased question used for keyword routing.
func (r QueryRequest) Lower() string {
	return strings.ToLower(r.Text)
}

// ConversationEntry is one exchange in a router's in-memory transcript.
type ConversationEntry struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Request   string      `json:"request"`
	Response  string      `json:"response"`
	Pending   bool        `json:"pending"`
	Mode      BackendMode `json:"mode"`
	Fallback  bool        `json:"fallback"`
}

// NewConversationEntry starts a pending entry for the given request.
func NewConversationEntry(req QueryRequest, mode BackendMode, now time.Time) ConversationEntry {
	return ConversationEntry{
		ID:        uuid.NewString(),
		Timestamp: now,
		Request:   req.Text,
		Pending:   true,
		Mode:      mode,
	}
}

// Complete records the response text and clears the pending flag.
func (e *ConversationEntry) Complete(response string, fallback bool) {
	e.Response = response
	e.Fallback = fallback
	e.Pending = false
}
