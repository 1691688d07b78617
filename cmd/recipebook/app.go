package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipebook/internal/blob"
	"recipebook/internal/catalog"
	"recipebook/internal/config"
	"recipebook/internal/core"
	"recipebook/internal/online"
)

type globalFlags struct {
	logLevel    string
	metricsAddr string
	storage     string
	database    string
	envFile     string
}

// app holds what a single command invocation wires together.
type app struct {
	stdout io.Writer
	stderr io.Writer
	flags  globalFlags

	cfg      config.Config
	logger   *slog.Logger
	store    core.PersistentStore
	svc      *core.Service
	registry *prometheus.Registry
	metrics  *http.Server
	// metricsURL is the base URL of the running metrics listener.
	metricsURL string
	library    *online.Library
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) setup(ctx context.Context) error {
	var files []string
	if a.flags.envFile != "" {
		files = append(files, a.flags.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	if a.flags.logLevel != "" {
		level, err := config.ParseLevel(a.flags.logLevel)
		if err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		cfg.LogLevel = level
	}
	if a.flags.metricsAddr != "" {
		cfg.MetricsAddr = a.flags.metricsAddr
	}
	if a.flags.storage != "" {
		cfg.Storage.Driver = core.StorageDriver(a.flags.storage)
	}
	if a.flags.database != "" {
		cfg.Storage.Database = a.flags.database
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ingredients := catalog.DefaultIngredients()
	effects := catalog.DefaultEffects()
	if cfg.CatalogFile != "" {
		if err := catalog.LoadOverrides(cfg.CatalogFile, ingredients, effects); err != nil {
			return err
		}
		a.logger.Debug("catalog loaded", "path", cfg.CatalogFile)
	}

	a.registry = prometheus.NewRegistry()
	recorder, err := core.NewPrometheusMetricsRecorder(a.registry)
	if err != nil {
		return err
	}
	if cfg.MetricsAddr != "" {
		if err := a.serveMetrics(cfg.MetricsAddr); err != nil {
			return err
		}
	}

	store, err := core.OpenPersistentStore(ctx, cfg.Storage, nil)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	a.store = store
	a.svc = core.NewService(store,
		core.WithLogger(a.logger),
		core.WithMetricsRecorder(recorder),
		core.WithAuditRecorder(core.LogAuditRecorder{Logger: a.logger}),
		core.WithCatalogs(ingredients, effects),
	)
	a.logger.Debug("storage opened", "driver", cfg.Storage.Driver, "database", cfg.Storage.Database)
	return nil
}

func (a *app) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "error", err)
		}
	}()
	a.metricsURL = "http://" + ln.Addr().String()
	a.logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	var errs []error
	if a.metrics != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		errs = append(errs, a.metrics.Shutdown(shutdownCtx))
		cancel()
	}
	if a.store != nil {
		errs = append(errs, core.CloseStore(a.store))
		a.store = nil
	}
	a.metrics = nil
	return errors.Join(errs...)
}

// onlineLibrary opens the shared library on first use.
func (a *app) onlineLibrary(ctx context.Context) (*online.Library, error) {
	if a.library != nil {
		return a.library, nil
	}
	store, err := blob.Open(ctx, a.cfg.Blob)
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	lib, err := online.New(store,
		online.WithLogger(a.logger),
		online.WithSessionFile(a.cfg.SessionFile),
	)
	if err != nil {
		return nil, err
	}
	a.library = lib
	return lib, nil
}

// errNoCatalogFile is returned by catalog edits that would not outlive the
// current invocation.
var errNoCatalogFile = errors.New("no catalog file configured; set " + config.EnvCatalogFile)

// saveCatalog persists catalog edits to the configured catalog file.
func (a *app) saveCatalog() error {
	if a.cfg.CatalogFile == "" {
		return errNoCatalogFile
	}
	return catalog.Save(a.cfg.CatalogFile, a.svc.Ingredients(), a.svc.Effects())
}

// editCatalog runs a catalog mutation and persists it. The mutation is
// refused up front when there is nowhere to persist it.
func (a *app) editCatalog(fn func() error) error {
	if a.cfg.CatalogFile == "" {
		return errNoCatalogFile
	}
	if err := fn(); err != nil {
		return err
	}
	return a.saveCatalog()
}

// resolveDrug finds a local recipe by id or, failing that, by name.
func (a *app) resolveDrug(ref string) (core.Drug, error) {
	d, err := a.svc.GetDrug(ref)
	if err == nil {
		return d, nil
	}
	if byName, ok := a.svc.FindDrugByName(ref); ok {
		return byName, nil
	}
	return core.Drug{}, err
}
