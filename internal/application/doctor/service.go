package doctor

import (
	"context"
	"fmt"
	"os"

	appconfig "github.com/doeshing/firewatch/internal/application/config"
	"github.com/doeshing/firewatch/internal/application/selector"
	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
)

// BackendSelector is the part of the selector the doctor needs.
type BackendSelector interface {
	Select(ctx context.Context, cred domain.Credential) selector.Selection
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Gateway        ports.Gateway
	Selector       BackendSelector
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Run executes checks and returns a report. The error is non-nil only when
// the configuration cannot be loaded at all.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format %s, incident %q", cfg.ConfigFormatVersion, cfg.Incident.Name)))
	}

	checks = append(checks, s.storageChecks(ctx, cfg)...)

	cred := cfg.ResolveCredential(s.lookup())
	checks = append(checks, credentialCheck(cfg, cred))
	checks = append(checks, s.backendChecks(ctx, cred)...)

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) storageChecks(ctx context.Context, cfg domain.Config) []domain.HealthCheck {
	if _, err := os.Stat(cfg.Storage.Path); err != nil {
		return []domain.HealthCheck{fail("Storage", fmt.Sprintf("%s: %v", cfg.Storage.Path, err))}
	}
	if s.Gateway == nil {
		return []domain.HealthCheck{warn("Storage", "gateway not initialized")}
	}
	if _, err := s.Gateway.Execute(ctx, "SELECT 1"); err != nil {
		return []domain.HealthCheck{fail("Storage", err.Error())}
	}

	checks := []domain.HealthCheck{ok("Storage", cfg.Storage.Path)}
	for _, table := range domain.EdenTables {
		name := "Table " + table
		rows, err := s.Gateway.Execute(ctx, "SELECT COUNT(*) AS n FROM "+table)
		switch {
		case err != nil:
			checks = append(checks, fail(name, err.Error()))
		case len(rows) == 0 || rows[0].Int("n") == 0:
			checks = append(checks, warn(name, "empty"))
		default:
			checks = append(checks, ok(name, fmt.Sprintf("%d rows", rows[0].Int("n"))))
		}
	}
	return checks
}

func credentialCheck(cfg domain.Config, cred domain.Credential) domain.HealthCheck {
	if cred.Empty() {
		return warn("API key", fmt.Sprintf("%s not set; answers come from local data", cfg.AI.APIKeyEnv))
	}
	return ok("API key", fmt.Sprintf("configured (%s)", cred))
}

func (s *Service) backendChecks(ctx context.Context, cred domain.Credential) []domain.HealthCheck {
	if s.Selector == nil || cred.Empty() {
		return []domain.HealthCheck{warn("Backend", fmt.Sprintf("%s: probes skipped", domain.ModeFallback.Label()))}
	}
	sel := s.Selector.Select(ctx, cred)
	checks := make([]domain.HealthCheck, 0, len(sel.Attempts)+1)
	for _, attempt := range sel.Attempts {
		name := "Probe " + attempt.Mode.Label()
		if attempt.OK {
			checks = append(checks, ok(name, attempt.Elapsed))
		} else {
			checks = append(checks, warn(name, cred.Redact(attempt.Detail)))
		}
	}
	if sel.Mode.Remote() {
		checks = append(checks, ok("Backend", sel.Mode.Label()))
	} else {
		checks = append(checks, warn("Backend", sel.Mode.Label()+": every probe failed"))
	}
	return checks
}

func (s *Service) lookup() func(string) (string, bool) {
	if s.LookupEnv != nil {
		return s.LookupEnv
	}
	return os.LookupEnv
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
