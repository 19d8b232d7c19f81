package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/okian/matchboard/internal/adapters/feed"
	"github.com/okian/matchboard/internal/adapters/http/api"
	"github.com/okian/matchboard/internal/adapters/http/swagger"
	"github.com/okian/matchboard/internal/adapters/repository"
	app "github.com/okian/matchboard/internal/app"
	"github.com/okian/matchboard/internal/config"
	"github.com/okian/matchboard/internal/domain/scoring"
	"github.com/okian/matchboard/pkg/logger"
	"github.com/okian/matchboard/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "failed to read .env:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "matchboard exited", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run serves the board until ctx is cancelled. A shutdown signal that lands
// during startup is a clean exit, not a failure.
func run(ctx context.Context, cfg *config.Config) error {
	err := serve(ctx, cfg)
	if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
		logger.Get().Info(context.Background(), "startup interrupted", logger.Error(err))
		return nil
	}
	return err
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	mgr := metrics.Configure(metricsOptions(cfg)...)

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Info(context.Background(), "server stopped")
		return nil
	})
	g.Go(func() error {
		startSystemMetricsUpdater(gctx, mgr.RefreshInterval())
		return nil
	})
	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc, mgr.RefreshInterval())
		return nil
	})
	return g.Wait()
}

// metricsOptions maps the metrics_* config keys onto the global manager.
func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithRefreshInterval(time.Duration(cfg.MetricsRefreshSeconds) * time.Second),
		metrics.WithMetricPrefix(cfg.MetricsPrefix),
		metrics.WithCustomLabels(cfg.MetricsLabels),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
	}
}

// newService opens the configured store and starts the board service on it.
func newService(ctx context.Context, cfg *config.Config) (*app.Service, error) {
	log := logger.Get()

	engineOpts := []scoring.Option{scoring.WithWeights(scoring.Weights{
		Keyword:       cfg.KeywordWeight,
		Role:          cfg.RoleWeight,
		Affiliation:   cfg.AffiliationWeight,
		TraitBonusMax: cfg.TraitBonusMax,
	})}
	if len(cfg.AdvantageTraits) > 0 {
		table, err := scoring.ParseAdvantageTable(cfg.AdvantageTraits)
		if err != nil {
			return nil, fmt.Errorf("advantage_traits: %w", err)
		}
		engineOpts = append(engineOpts, scoring.WithAdvantageTable(table))
	}

	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.StorePath, repository.WithLogger(log.Named("store")))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	svc := app.New(
		app.WithLogger(log.Named("board")),
		app.WithStore(store),
		app.WithEngine(scoring.NewEngine(engineOpts...)),
		app.WithFeedRenderer(feed.New(feed.WithTitle(cfg.FeedTitle), feed.WithBaseURL(cfg.FeedBaseURL))),
		app.WithMaxMatches(cfg.MaxMatches),
		app.WithMaxAdvantages(cfg.MaxAdvantages),
		app.WithSeedDemo(cfg.SeedDemo),
	)
	if err := svc.Start(ctx); err != nil {
		svc.Stop()
		return nil, fmt.Errorf("starting service: %w", err)
	}
	return svc, nil
}

// newMux registers the API docs and the board API.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, logger.Named("api")).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes the board gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes the board gauges. GetStats records them.
func updateServiceMetrics(ctx context.Context, svc *app.Service) {
	if _, err := svc.GetStats(ctx); err != nil {
		logger.Get().Warn(ctx, "refreshing board stats", logger.Error(err))
	}
}
