package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/doeshing/firewatch/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateAI(cfg.AI); err != nil {
		return err
	}
	if err := validateZones(cfg.Zones); err != nil {
		return err
	}
	if err := validateShelters(cfg.Shelters); err != nil {
		return err
	}
	if err := validateServer(cfg.Server); err != nil {
		return err
	}
	if err := validateMenu(cfg.Menu); err != nil {
		return err
	}
	return validateLogging(cfg.Logging)
}

func validateAI(ai domain.AISettings) error {
	if ai.BaseURL != "" {
		u, err := url.Parse(ai.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("ai.base_url must be an absolute URL, got %q", ai.BaseURL)
		}
	}
	if ai.MinRequestIntervalMS < 0 {
		return errors.New("ai.min_request_interval_ms must be >= 0")
	}
	if ai.MaxToolTurns < 0 {
		return errors.New("ai.max_tool_turns must be >= 0")
	}
	return nil
}

func validateZones(zones []domain.FireZone) error {
	seen := make(map[string]bool, len(zones))
	for i, zone := range zones {
		id := strings.ToUpper(strings.TrimSpace(zone.ZoneID))
		if id == "" {
			return fmt.Errorf("zones[%d]: id is required", i)
		}
		if seen[id] {
			return fmt.Errorf("zones[%d]: duplicate id %s", i, zone.ZoneID)
		}
		seen[id] = true
		if zone.AreaAcres < 0 {
			return fmt.Errorf("zones[%d]: area_acres must be >= 0", i)
		}
	}
	return nil
}

func validateShelters(shelters []domain.ShelterSettings) error {
	for i, s := range shelters {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("shelters[%d]: name is required", i)
		}
		if s.Capacity < 0 || s.Occupied < 0 {
			return fmt.Errorf("shelters[%d]: capacity and occupied must be >= 0", i)
		}
	}
	return nil
}

func validateServer(server domain.ServerSettings) error {
	if server.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(server.Addr); err != nil {
		return fmt.Errorf("server.addr invalid: %w", err)
	}
	return nil
}

func validateMenu(menu domain.MenuSettings) error {
	if menu.Fire.Label == "" && len(menu.Fire.Children) > 0 {
		return errors.New("menu.fire.label must be set when children are configured")
	}
	return nil
}

func validateLogging(logging domain.LoggingSettings) error {
	switch strings.ToLower(logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console|json, got %s", logging.Format)
	}
	switch strings.ToLower(logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug|info|warn|error, got %s", logging.Level)
	}
	return nil
}
