// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/pluggable/pluggable/internal/catalog"
	"github.com/pluggable/pluggable/internal/config"
	"github.com/pluggable/pluggable/internal/issue"
	"github.com/pluggable/pluggable/internal/tracing"
	"github.com/pluggable/pluggable/pkg/compose"
)

type (
	// App wires CLI services and shared dependencies. Every cobra handler
	// receives an App and goes through its services.
	App struct {
		Config   ConfigProvider
		Catalogs CatalogLoader
		stdout   io.Writer
		stderr   io.Writer

		// Set by flags and the root PersistentPreRunE.
		verbose    bool
		trace      bool
		configFile string
		settings   *config.Config
		logger     *slog.Logger
		tracing    *tracing.Provider
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Catalogs CatalogLoader
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// CatalogLoader reads a plugin catalog from a path.
	CatalogLoader interface {
		Load(path string) (*catalog.Catalog, error)
	}

	fileCatalogLoader struct{}

	// composition is one run of a catalog through a fresh composer.
	composition struct {
		catalog  *catalog.Catalog
		composer *compose.Composer
		events   *catalog.EventLog
		result   *catalog.Result
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Catalogs == nil {
		deps.Catalogs = fileCatalogLoader{}
	}

	return &App{
		Config:   deps.Config,
		Catalogs: deps.Catalogs,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		settings: config.DefaultConfig(),
		logger:   slog.Default(),
	}
}

func (fileCatalogLoader) Load(path string) (*catalog.Catalog, error) {
	return catalog.Load(path)
}

// initialize loads the configuration and installs the logger. A broken
// config file is reported and the defaults are used instead.
func (a *App) initialize(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configFile})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.verbose))
		cfg = config.DefaultConfig()
	}
	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}
	a.settings = cfg

	a.logger = slog.New(newLogHandler(a.stderr, cfg.LogLevel, a.verbose))
	slog.SetDefault(a.logger)

	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:     a.trace,
		Writer:      a.stderr,
		PrettyPrint: true,
	})
	if err != nil {
		return err
	}
	a.tracing = provider
	return nil
}

// shutdown flushes spans still held by the tracer provider.
func (a *App) shutdown(ctx context.Context) {
	if a.tracing == nil {
		return
	}
	if err := a.tracing.Shutdown(ctx); err != nil {
		slog.Warn("failed to shut down tracing", "error", err)
	}
}

// newLogHandler returns a charmbracelet/log logger used as the slog handler.
// Verbose mode always logs at debug level.
func newLogHandler(w io.Writer, level config.LogLevel, verbose bool) *log.Logger {
	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.WarnLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  lvl,
	})
}

// catalogPath returns the catalog named on the command line, falling back
// to the configured one.
func (a *App) catalogPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return string(a.settings.Catalog)
}

func (a *App) loadCatalog(args []string) (*catalog.Catalog, error) {
	path := a.catalogPath(args)
	slog.Debug("loading catalog", "path", path)
	return a.Catalogs.Load(path)
}

// compose loads the catalog and composes all of its targets with hook
// events recorded.
func (a *App) compose(ctx context.Context, args []string) (*composition, error) {
	cat, err := a.loadCatalog(args)
	if err != nil {
		return nil, err
	}

	events := &catalog.EventLog{}
	reg, err := cat.Registry(events)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("register plugins").
			WithResource(cat.Path).
			WithSuggestion("Give every plugin a unique name").
			WithIssue(issueFor(err)).
			Wrap(err).
			BuildError()
	}

	opts := []compose.ComposerOption{compose.WithLogger(a.logger)}
	if a.tracing != nil && a.tracing.Enabled() {
		opts = append(opts, compose.WithTracer(a.tracing.Tracer()))
	}
	composer := compose.NewComposer(reg, opts...)
	return &composition{
		catalog:  cat,
		composer: composer,
		events:   events,
		result:   cat.Compose(ctx, composer),
	}, nil
}
