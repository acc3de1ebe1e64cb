package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"

	admincustomizer "github.com/goliatone/go-admincustomizer"
	"github.com/goliatone/go-admincustomizer/internal/admin/httpserver"
	"github.com/goliatone/go-admincustomizer/internal/config"
	"github.com/goliatone/go-admincustomizer/internal/logging"
	"github.com/goliatone/go-admincustomizer/internal/logging/gologger"
	"github.com/goliatone/go-admincustomizer/pkg/interfaces"
	"github.com/goliatone/go-admincustomizer/pkg/orchestrator"
	"github.com/goliatone/go-admincustomizer/pkg/render"
	"github.com/goliatone/go-admincustomizer/pkg/renderers/tui"
	"github.com/goliatone/go-admincustomizer/pkg/renderers/vanilla"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
)

// app holds what the commands share: the loaded configuration, loggers and
// the settings directory over the configured store.
type app struct {
	configPath string
	logLevel   string

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg      config.Config
	provider interfaces.LoggerProvider
	logger   interfaces.Logger

	store      settings.Store
	closeStore func() error
	dir        *settings.Directory
	gen        *orchestrator.Orchestrator

	// prompts replaces the survey driver of the configure command.
	prompts tui.PromptDriver
}

func newApp() *app {
	return &app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg

	if a.provider == nil {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			return err
		}
		a.provider = provider
	}
	a.logger = logging.ModuleLogger(a.provider, logging.CLIModule)
	return nil
}

// open connects the store and builds the directory and orchestrator.
func (a *app) open(ctx context.Context) error {
	if a.gen != nil {
		return nil
	}
	if a.store == nil {
		store, closeFn, err := admincustomizer.OpenStore(ctx, a.cfg.Storage.Driver, a.cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("open %s store: %w", a.cfg.Storage.Driver, err)
		}
		a.store, a.closeStore = store, closeFn
	}

	dir, err := admincustomizer.NewDirectory(a.store, a.cfg.Pages,
		settings.WithDirectoryLogger(logging.ModuleLogger(a.provider, logging.SettingsModule)),
		settings.WithDirectoryAdminPath(httpserver.SettingsPath(a.cfg.Server.AdminPath)),
	)
	if err != nil {
		return err
	}
	a.dir = dir

	registry := render.NewRegistry()
	html, err := a.htmlRenderer()
	if err != nil {
		return err
	}
	registry.MustRegister(html)

	opts := []orchestrator.Option{
		orchestrator.WithDirectory(dir),
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(logging.ModuleLogger(a.provider, logging.FeaturesModule)),
	}
	if path := strings.TrimSpace(a.cfg.Theme.Presets); path != "" {
		preset, err := orchestrator.NewPresetTransformerFromFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return err
		}
		opts = append(opts, orchestrator.WithTransformer(preset))
	}
	a.gen = orchestrator.New(opts...)
	return nil
}

func (a *app) htmlRenderer() (*vanilla.Renderer, error) {
	opts := []vanilla.Option{vanilla.WithAssetsURL(a.cfg.Site.AssetsURL)}
	if dir := strings.TrimSpace(a.cfg.Theme.Dir); dir != "" {
		manifest, err := theme.LoadDir(os.DirFS(dir), ".")
		if err != nil {
			return nil, fmt.Errorf("load theme %s: %w", dir, err)
		}
		registry := theme.NewRegistry()
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("register theme: %w", err)
		}
		opts = append(opts, vanilla.WithThemeProvider(registry, a.cfg.Theme.Name, a.cfg.Theme.Variant))
	}
	return vanilla.New(opts...)
}

func (a *app) close() {
	if a.closeStore == nil {
		return
	}
	if err := a.closeStore(); err != nil && a.logger != nil {
		a.logger.Warn("cli.store_close_failed", "error", err)
	}
	a.closeStore = nil
}
