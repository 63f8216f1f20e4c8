package domain

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

const redactedMarker = "[redacted]"

// Credential wraps an API key so that it never leaks through fmt, logs,
// JSON or YAML output. Reveal is the only way to read the raw value.
type Credential struct {
	secret string
}

// NewCredential builds a credential from a raw key.
func NewCredential(raw string) Credential {
	return Credential{secret: strings.TrimSpace(raw)}
}

// Empty reports whether no key is set.
func (c Credential) Empty() bool {
	return c.secret == ""
}

// Reveal returns the raw key. Callers must not log the result.
func (c Credential) Reveal() string {
	return c.secret
}

func (c Credential) String() string {
	if c.Empty() {
		return "<unset>"
	}
	return redactedMarker
}

func (c Credential) GoString() string {
	return "domain.Credential{" + c.String() + "}"
}

// Redact replaces every occurrence of the key in text.
func (c Credential) Redact(text string) string {
	if c.Empty() {
		return text
	}
	return strings.ReplaceAll(text, c.secret, redactedMarker)
}

func (c Credential) MarshalJSON() ([]byte, error) {
	if c.Empty() {
		return json.Marshal("")
	}
	return json.Marshal(redactedMarker)
}

func (c Credential) MarshalYAML() (interface{}, error) {
	if c.Empty() {
		return "", nil
	}
	return redactedMarker, nil
}

func (c *Credential) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw == redactedMarker {
		raw = ""
	}
	*c = NewCredential(raw)
	return nil
}

// IsZero lets yaml omitempty drop unset credentials.
func (c Credential) IsZero() bool {
	return c.Empty()
}
