// Package domain defines core business entities and value objects for firewatch.
//
// This file contains the AI backend modes used throughout the application.
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures.
package domain

import "strings"

// BackendMode is the committed AI-completion strategy for a router's lifetime.
// It is chosen once by the selector and never changes afterwards.
type BackendMode string

const (
	ModeDirectAPI      BackendMode = "direct_api"
	ModeVendorSDK      BackendMode = "vendor_sdk"
	ModeAgentFramework BackendMode = "agent_framework"
	ModeFallback       BackendMode = "fallback"
)

// ProbeOrder lists the modes the selector tries before settling on ModeFallback.
var ProbeOrder = []BackendMode{ModeDirectAPI, ModeVendorSDK, ModeAgentFramework}

// Label returns a human readable name for the mode.
func (m BackendMode) Label() string {
	switch m {
	case ModeDirectAPI:
		return "Direct HTTP API"
	case ModeVendorSDK:
		return "Vendor SDK"
	case ModeAgentFramework:
		return "Agent framework"
	case ModeFallback:
		return "Local fallback"
	default:
		return string(m)
	}
}

// Remote reports whether the mode talks to an external AI service.
func (m BackendMode) Remote() bool {
	return m != ModeFallback && m != ""
}

// ParseBackendMode accepts the config spelling of a mode ("direct", "sdk", "agent", "fallback").
func ParseBackendMode(raw string) (BackendMode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "direct", "direct_api", "http":
		return ModeDirectAPI, true
	case "sdk", "vendor_sdk", "genai":
		return ModeVendorSDK, true
	case "agent", "agent_framework", "tools":
		return ModeAgentFramework, true
	case "fallback", "local", "offline":
		return ModeFallback, true
	default:
		return "", false
	}
}
