package app

import (
	"context"
	"fmt"
	"os"

	appconfig "github.com/doeshing/firewatch/internal/application/config"
	"github.com/doeshing/firewatch/internal/application/doctor"
	"github.com/doeshing/firewatch/internal/application/menu"
	"github.com/doeshing/firewatch/internal/application/query"
	"github.com/doeshing/firewatch/internal/application/selector"
	"github.com/doeshing/firewatch/internal/application/views"
	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/infrastructure/ai"
	"github.com/doeshing/firewatch/internal/infrastructure/config"
	"github.com/doeshing/firewatch/internal/infrastructure/metrics"
	"github.com/doeshing/firewatch/internal/infrastructure/storage"
	"github.com/doeshing/firewatch/internal/pkg/logger"
)

// Options are the process-level switches that shape the container.
type Options struct {
	ConfigPath string
	Verbose    bool
	LogFormat  string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Credential   domain.Credential
	Logger       *logger.ZapLogger
	Gateway      *storage.Gateway
	Views        *views.Builder
	Metrics      *metrics.Registry
	Selector     *selector.Selector
	Doctor       *doctor.Service
}

// BuildContainer constructs the dependency graph. Nothing here touches the
// network; backends are probed only by SelectBackend.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	if wd, err := os.Getwd(); err == nil {
		config.LoadDotEnv(wd)
	}

	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := appconfig.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgLoader.Path(), err)
	}

	level := cfg.Logging.Level
	if opts.Verbose {
		level = "debug"
	}
	format := cfg.Logging.Format
	if opts.LogFormat != "" {
		format = opts.LogFormat
	}
	log := logger.New(level, format)

	cred := cfg.ResolveCredential(os.LookupEnv)
	registry := metrics.New()
	gateway := storage.NewGateway(cfg.Storage.Path, log, registry)
	builder := views.NewBuilder(gateway, cfg, log)

	candidates, err := ai.NewFactory(builder, cfg.RequestTimeout()).Candidates(cfg, cred)
	if err != nil {
		return nil, err
	}
	sel := &selector.Selector{
		Candidates:   candidates,
		ProbeTimeout: cfg.ProbeTimeout(),
		Metrics:      registry,
		Logger:       log,
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Credential:   cred,
		Logger:       log,
		Gateway:      gateway,
		Views:        builder,
		Metrics:      registry,
		Selector:     sel,
		Doctor: &doctor.Service{
			ConfigProvider: cfgLoader,
			Gateway:        gateway,
			Selector:       sel,
		},
	}, nil
}

// SelectBackend probes the configured backends once and commits to a mode.
func (c *Container) SelectBackend(ctx context.Context) selector.Selection {
	return c.Selector.Select(ctx, c.Credential)
}

// NewRouter builds a query router bound to the committed selection.
func (c *Container) NewRouter(sel selector.Selection) *query.Router {
	return query.NewRouter(query.Options{
		Views:          c.Views,
		Backend:        sel.Backend,
		Mode:           sel.Mode,
		Preamble:       c.Config.AI.Preamble,
		RequestTimeout: c.Config.RequestTimeout(),
		Metrics:        c.Metrics,
		Logger:         c.Logger,
	})
}

// Menu returns the navigation with the fire section in place.
func (c *Container) Menu() []domain.MenuItem {
	return menu.FromConfig(c.Config.Menu)
}

// Close releases the storage handle and flushes logs.
func (c *Container) Close() error {
	err := c.Gateway.Close()
	_ = c.Logger.Sync()
	return err
}
