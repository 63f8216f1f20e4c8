package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/firewatch/assets"
	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/pkg/filesystem"
	"github.com/doeshing/firewatch/internal/ports"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "FIREWATCH_CONFIG"

// FileLoader loads YAML configuration from ~/.firewatch/config.yaml (overridable via FIREWATCH_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path defers to FIREWATCH_CONFIG
// and then the default location.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := writeDefault(path); err != nil {
				return domain.Config{}, fmt.Errorf("write default config: %w", err)
			}
			return DefaultConfig(), nil
		}
		return domain.Config{}, err
	}

	cfg, err := parse(data)
	if err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.StateDir(), "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

// writeDefault copies the embedded YAML so the comments and ordering survive.
func writeDefault(path string) error {
	return os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions)
}

func parse(data []byte) (domain.Config, error) {
	var cfg domain.Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

// DefaultConfig exposes the embedded bootstrap configuration.
func DefaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		// Embedded YAML is covered by tests; keep the zero profile usable anyway.
		return hydrateDefaults(domain.Config{ConfigFormatVersion: "1"})
	}
	return hydrateDefaults(cfg)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = filepath.Join(filesystem.StateDir(), "storage.db")
	}
	cfg.Storage.Path = filesystem.ExpandPath(cfg.Storage.Path)
	if cfg.AI.APIKeyEnv == "" {
		cfg.AI.APIKeyEnv = domain.DefaultAPIKeyEnv
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = domain.DefaultGeminiBaseURL
	}
	if cfg.AI.ProbeTimeoutSeconds <= 0 {
		cfg.AI.ProbeTimeoutSeconds = int(domain.DefaultProbeTimeout.Seconds())
	}
	if cfg.AI.RequestTimeoutSeconds <= 0 {
		cfg.AI.RequestTimeoutSeconds = int(domain.DefaultRequestTimeout.Seconds())
	}
	if cfg.AI.MaxToolTurns <= 0 {
		cfg.AI.MaxToolTurns = domain.DefaultMaxToolTurns
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "127.0.0.1:8080"
	}
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		cfg.Server.ShutdownTimeoutSeconds = int(domain.DefaultShutdownTimeout.Seconds())
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	return cfg
}

// LoadDotEnv loads the first .env found in dir or its parents without
// overriding variables already set. It returns the file used, if any.
func LoadDotEnv(dir string) string {
	for i := 0; i < 4; i++ {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Dump renders cfg as YAML. A configured credential is written as a marker.
func Dump(cfg domain.Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
