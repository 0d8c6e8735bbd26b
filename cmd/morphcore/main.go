// Command morphcore serves the cross calculator over HTTP, or over MCP on
// stdio with -mcp. Configuration comes from MORPHCORE_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"morphcore/internal/adapters/httpapi"
	"morphcore/internal/adapters/mcptools"
	"morphcore/internal/adapters/reports"
	"morphcore/internal/blob"
	"morphcore/internal/cache"
	"morphcore/internal/config"
	"morphcore/internal/core"
	"morphcore/plugins"
)

const version = "0.1.0"

const shutdownTimeout = 10 * time.Second

// openBlob is swapped in tests.
var openBlob = blob.Open

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil && !errors.Is(err, flag.ErrHelp) {
		config.Exitf("morphcore: %v", err)
	}
}

func run(ctx context.Context, args []string, logOut io.Writer) error {
	fs := flag.NewFlagSet("morphcore", flag.ContinueOnError)
	fs.SetOutput(logOut)
	serveMCP := fs.Bool("mcp", false, "serve MCP tools on stdio instead of HTTP")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(logOut, cfg.Log)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	if *serveMCP {
		logger.Info("serving MCP on stdio", "version", version)
		return mcptools.ServeStdio(ctx, mcptools.NewServer(a.service, version))
	}
	return a.serveHTTP(ctx, cfg.HTTPAddr)
}

type app struct {
	logger  *slog.Logger
	service *core.Service
	cache   cache.Store
	archive blob.Store
	handler http.Handler
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	cat, err := plugins.LoadCatalog(cfg.CatalogOverlay)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	store, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	archive, err := openBlob(ctx, cfg.Blob)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := core.NewPrometheusRecorder(reg)
	if err != nil {
		_ = store.Close()
		_ = closeBlob(archive)
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	svc := core.NewService(cat,
		core.WithCache(store),
		core.WithLogger(logger),
		core.WithMetricsRecorder(recorder),
		core.WithTracer(core.NewOTelTracer(nil)),
		core.WithMaxActiveLoci(cfg.MaxActiveLoci),
	)
	h := httpapi.NewHandler(svc, logger)
	h.Archive = reports.NewArchiver(archive)
	h.Gatherer = reg

	logger.Info("morphcore ready",
		"species", len(cat.Species()),
		"cache", store.Driver(),
		"blob", archive.Driver(),
		"max_active_loci", cfg.MaxActiveLoci,
	)
	return &app{logger: logger, service: svc, cache: store, archive: archive, handler: h.Routes()}, nil
}

func (a *app) serveHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("stopped")
	return nil
}

func (a *app) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("close cache", "error", err)
	}
	if err := closeBlob(a.archive); err != nil {
		a.logger.Warn("close blob store", "driver", a.archive.Driver(), "error", err)
	}
}

// closeBlob releases drivers that hold resources; the bundled ones do not.
func closeBlob(store blob.Store) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
