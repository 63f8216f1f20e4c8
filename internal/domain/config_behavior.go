package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProbeTimeout returns the per-probe deadline.
func (c *Config) ProbeTimeout() time.Duration {
	if c.AI.ProbeTimeoutSeconds <= 0 {
		return DefaultProbeTimeout
	}
	return time.Duration(c.AI.ProbeTimeoutSeconds) * time.Second
}

// RequestTimeout returns the deadline for one backend call.
func (c *Config) RequestTimeout() time.Duration {
	if c.AI.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.AI.RequestTimeoutSeconds) * time.Second
}

// MinRequestInterval is the spacing enforced between direct API calls.
// Zero disables spacing.
func (c *Config) MinRequestInterval() time.Duration {
	if c.AI.MinRequestIntervalMS <= 0 {
		return 0
	}
	return time.Duration(c.AI.MinRequestIntervalMS) * time.Millisecond
}

// BackendOrder returns the remote modes to probe, in priority order.
// Unknown names and "fallback" are skipped; duplicates keep their first position.
func (c *Config) BackendOrder() []BackendMode {
	if len(c.AI.Backends) == 0 {
		return append([]BackendMode(nil), ProbeOrder...)
	}
	seen := make(map[BackendMode]bool, len(c.AI.Backends))
	var order []BackendMode
	for _, raw := range c.AI.Backends {
		mode, ok := ParseBackendMode(raw)
		if !ok || !mode.Remote() || seen[mode] {
			continue
		}
		seen[mode] = true
		order = append(order, mode)
	}
	return order
}

// ResolveCredential prefers the environment variable named by api_key_env and
// falls back to the key stored in the config file.
func (c *Config) ResolveCredential(lookup func(string) (string, bool)) Credential {
	envName := c.AI.APIKeyEnv
	if envName == "" {
		envName = DefaultAPIKeyEnv
	}
	if lookup != nil {
		if value, ok := lookup(envName); ok && strings.TrimSpace(value) != "" {
			return NewCredential(value)
		}
	}
	return c.AI.APIKey
}

// ModelFor returns the model identifier configured for a remote mode.
func (c *Config) ModelFor(mode BackendMode) string {
	var model string
	switch mode {
	case ModeDirectAPI:
		model = c.AI.DirectModel
	case ModeVendorSDK:
		model = c.AI.SDKModel
	case ModeAgentFramework:
		model = c.AI.AgentModel
	}
	if model == "" {
		return DefaultGeminiModel
	}
	return model
}

// TotalShelterCapacity sums configured shelter capacity, falling back to the
// incident profile figure when no shelters are configured.
func (c *Config) TotalShelterCapacity() int64 {
	var total int64
	for _, s := range c.Shelters {
		total += s.Capacity
	}
	if total == 0 {
		return c.Incident.ShelterCapacity
	}
	return total
}

// FindZone looks up a configured fire zone by id.
func (c *Config) FindZone(id string) (FireZone, bool) {
	for _, zone := range c.Zones {
		if strings.EqualFold(zone.ZoneID, id) {
			return zone, true
		}
	}
	return FireZone{}, false
}

// Validate reports configuration that cannot work at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Incident.ContainmentPercent < 0 || c.Incident.ContainmentPercent > 100 {
		return fmt.Errorf("incident.containment_percent must be between 0 and 100, got %d", c.Incident.ContainmentPercent)
	}
	for _, raw := range c.AI.Backends {
		if _, ok := ParseBackendMode(raw); !ok {
			return fmt.Errorf("ai.backends: unknown backend %q", raw)
		}
	}
	for i, req := range c.ResourceRequests {
		if req.QuantityFulfilled > req.QuantityRequested {
			return fmt.Errorf("resource_requests[%d]: fulfilled %d exceeds requested %d", i, req.QuantityFulfilled, req.QuantityRequested)
		}
	}
	return nil
}
