package domain_test

import (
	"testing"
	"time"

	"github.com/doeshing/firewatch/internal/domain"
)

// TestConfig_BackendOrder tests probe order resolution
func TestConfig_BackendOrder(t *testing.T) {
	tests := []struct {
		name     string
		backends []string
		want     []domain.BackendMode
	}{
		{
			name: "defaults to full probe order",
			want: []domain.BackendMode{domain.ModeDirectAPI, domain.ModeVendorSDK, domain.ModeAgentFramework},
		},
		{
			name:     "honours configured order",
			backends: []string{"agent", "direct"},
			want:     []domain.BackendMode{domain.ModeAgentFramework, domain.ModeDirectAPI},
		},
		{
			name:     "skips fallback unknown and duplicates",
			backends: []string{"sdk", "fallback", "nope", "SDK", "direct"},
			want:     []domain.BackendMode{domain.ModeVendorSDK, domain.ModeDirectAPI},
		},
		{
			name:     "only fallback yields no probes",
			backends: []string{"fallback"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.Config{AI: domain.AISettings{Backends: tt.backends}}
			got := cfg.BackendOrder()
			if len(got) != len(tt.want) {
				t.Fatalf("BackendOrder() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("BackendOrder()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestConfig_ResolveCredential tests env-first credential lookup
func TestConfig_ResolveCredential(t *testing.T) {
	env := map[string]string{"GEMINI_API_KEY": "from-env", "CUSTOM_KEY": " custom "}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	tests := []struct {
		name   string
		ai     domain.AISettings
		lookup func(string) (string, bool)
		want   string
	}{
		{
			name:   "environment wins over file",
			ai:     domain.AISettings{APIKey: domain.NewCredential("from-file")},
			lookup: lookup,
			want:   "from-env",
		},
		{
			name:   "custom env name is trimmed",
			ai:     domain.AISettings{APIKeyEnv: "CUSTOM_KEY"},
			lookup: lookup,
			want:   "custom",
		},
		{
			name:   "falls back to file when env missing",
			ai:     domain.AISettings{APIKeyEnv: "MISSING", APIKey: domain.NewCredential("from-file")},
			lookup: lookup,
			want:   "from-file",
		},
		{
			name: "empty when nothing configured",
			ai:   domain.AISettings{APIKeyEnv: "MISSING"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.Config{AI: tt.ai}
			got := cfg.ResolveCredential(tt.lookup)
			if got.Reveal() != tt.want {
				t.Errorf("ResolveCredential() revealed %q, want %q", got.Reveal(), tt.want)
			}
		})
	}
}

// TestConfig_Durations tests timeout defaults
func TestConfig_Durations(t *testing.T) {
	var cfg domain.Config
	if got := cfg.ProbeTimeout(); got != 10*time.Second {
		t.Errorf("ProbeTimeout() = %v, want 10s", got)
	}
	if got := cfg.MinRequestInterval(); got != 0 {
		t.Errorf("MinRequestInterval() = %v, want 0", got)
	}

	cfg.AI.ProbeTimeoutSeconds = 3
	cfg.AI.RequestTimeoutSeconds = 20
	cfg.AI.MinRequestIntervalMS = 250
	if got := cfg.ProbeTimeout(); got != 3*time.Second {
		t.Errorf("ProbeTimeout() = %v, want 3s", got)
	}
	if got := cfg.RequestTimeout(); got != 20*time.Second {
		t.Errorf("RequestTimeout() = %v, want 20s", got)
	}
	if got := cfg.MinRequestInterval(); got != 250*time.Millisecond {
		t.Errorf("MinRequestInterval() = %v, want 250ms", got)
	}
}

// TestConfig_TotalShelterCapacity tests capacity aggregation
func TestConfig_TotalShelterCapacity(t *testing.T) {
	cfg := domain.Config{Incident: domain.IncidentProfile{ShelterCapacity: 1200}}
	if got := cfg.TotalShelterCapacity(); got != 1200 {
		t.Errorf("TotalShelterCapacity() without shelters = %d, want 1200", got)
	}

	cfg.Shelters = []domain.ShelterSettings{{Capacity: 300}, {Capacity: 150}}
	if got := cfg.TotalShelterCapacity(); got != 450 {
		t.Errorf("TotalShelterCapacity() = %d, want 450", got)
	}
}

// TestConfig_Validate tests configuration validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    domain.Config
		wantError bool
	}{
		{
			name:   "valid minimal config",
			config: domain.Config{Storage: domain.StorageSettings{Path: "eden.db"}},
		},
		{
			name:      "missing storage path",
			config:    domain.Config{},
			wantError: true,
		},
		{
			name: "containment out of range",
			config: domain.Config{
				Storage:  domain.StorageSettings{Path: "eden.db"},
				Incident: domain.IncidentProfile{ContainmentPercent: 140},
			},
			wantError: true,
		},
		{
			name: "unknown backend",
			config: domain.Config{
				Storage: domain.StorageSettings{Path: "eden.db"},
				AI:      domain.AISettings{Backends: []string{"carrier-pigeon"}},
			},
			wantError: true,
		},
		{
			name: "over fulfilled request",
			config: domain.Config{
				Storage:          domain.StorageSettings{Path: "eden.db"},
				ResourceRequests: []domain.ResourceRequest{{QuantityRequested: 2, QuantityFulfilled: 3}},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestConfig_ModelFor tests per-mode model lookup
func TestConfig_ModelFor(t *testing.T) {
	cfg := domain.Config{AI: domain.AISettings{SDKModel: "gemini-2.0-flash"}}
	if got := cfg.ModelFor(domain.ModeVendorSDK); got != "gemini-2.0-flash" {
		t.Errorf("ModelFor(sdk) = %q", got)
	}
	if got := cfg.ModelFor(domain.ModeDirectAPI); got != domain.DefaultGeminiModel {
		t.Errorf("ModelFor(direct) = %q, want default", got)
	}
}
