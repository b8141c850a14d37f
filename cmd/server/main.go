package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/iho/goasset/internal/adapter/http"
	"github.com/iho/goasset/internal/adapter/http/handler"
	"github.com/iho/goasset/internal/adapter/http/middleware"
	"github.com/iho/goasset/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/goasset/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/goasset/internal/adapter/repository/redis"
	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/infrastructure/auth"
	"github.com/iho/goasset/internal/infrastructure/config"
	"github.com/iho/goasset/internal/infrastructure/eventpublisher"
	"github.com/iho/goasset/internal/infrastructure/logger"
	"github.com/iho/goasset/internal/infrastructure/metrics"
	"github.com/iho/goasset/internal/infrastructure/postgres"
	"github.com/iho/goasset/internal/infrastructure/redis"
	"github.com/iho/goasset/internal/usecase"
)

const limiterIdleTTL = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	app, err := newApp(ctx, cfg, log, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	defer app.Close()

	bgCtx, cancelBackground := context.WithCancel(ctx)
	defer cancelBackground()
	app.startBackground(bgCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      app.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.Storage).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")
	cancelBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}

// app is the wired server: the HTTP handler plus the background workers
// that share its repositories.
type app struct {
	handler     http.Handler
	publisher   *eventpublisher.EventPublisher
	rateLimiter *middleware.RateLimiter
	log         zerolog.Logger
	closers     []func()
}

// Close releases connections in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) startBackground(ctx context.Context) {
	go func() {
		if err := a.publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	if a.rateLimiter != nil {
		go func() {
			ticker := time.NewTicker(limiterIdleTTL)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					a.rateLimiter.CleanupLimiters(limiterIdleTTL)
				}
			}
		}()
	}
}

// storage groups the repositories of one backend.
type storage struct {
	txManager usecase.TransactionManager
	assets    usecase.AssetRepository
	entries   usecase.EntryRepository
	outbox    usecase.OutboxRepository
	audit     usecase.AuditRepository
	retrier   usecase.Retrier
	pinger    handler.Pinger
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		if cfg.MemorySeedFile != "" {
			if err := seedStore(store, cfg.MemorySeedFile, log); err != nil {
				return nil, err
			}
		}
		return &storage{
			txManager: store,
			assets:    memory.NewAssetRepository(store),
			entries:   memory.NewEntryRepository(store),
			outbox:    memory.NewOutboxRepository(store),
			audit:     memory.NewAuditRepository(store),
			close:     func() {},
		}, nil

	default:
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return nil, err
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info().Msg("connected to PostgreSQL")

		return &storage{
			txManager: postgresRepo.NewTxManager(pool),
			assets:    postgresRepo.NewAssetRepository(pool),
			entries:   postgresRepo.NewEntryRepository(pool),
			outbox:    postgresRepo.NewOutboxRepository(pool),
			audit:     postgresRepo.NewAuditRepository(pool),
			retrier:   postgresRepo.NewRetrier(log),
			pinger:    pool,
			close:     pool.Close,
		}, nil
	}
}

func seedStore(store *memory.Store, path string, log zerolog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	load := store.LoadAssets
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		load = store.LoadAssetsYAML
	}

	n, err := load(f)
	if err != nil {
		return err
	}
	log.Info().Int("assets", n).Str("file", path).Msg("loaded asset register")
	return nil
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app, error) {
	m := metrics.NewWithRegisterer(reg)
	a := &app{log: log}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)

	var (
		locker      usecase.RunLocker        = memory.NewRunLocker()
		idempotency usecase.IdempotencyStore = memory.NewIdempotencyStore()
		publisher   eventpublisher.Publisher = eventpublisher.NewLogPublisher(log)
		redisHealth goredis.UniversalClient
	)
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		log.Info().Msg("connected to Redis")

		locker = redisRepo.NewRunLocker(client)
		idempotency = redisRepo.NewIdempotencyStore(client)
		publisher = redisRepo.NewStreamPublisher(client, cfg.Outbox.Stream)
		redisHealth = client
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-process locks and idempotency")
	}

	calculator := domain.NewCalculator(decimal.NewFromFloat(cfg.Depreciation.DefaultAccelerationFactor))

	depreciationUC := usecase.NewDepreciationUseCase(
		store.txManager,
		store.assets,
		store.entries,
		store.outbox,
		store.audit,
		locker,
		postgresRepo.NewULIDGenerator(),
		calculator,
	).
		WithLockTTL(cfg.Depreciation.RunLockTTL).
		WithPostedReversal(cfg.Depreciation.AllowPostedReversal).
		WithMetrics(m).
		WithLogger(log)
	if store.retrier != nil {
		depreciationUC = depreciationUC.WithRetrier(store.retrier)
	}

	routerCfg := httpAdapter.RouterConfig{
		DepreciationHandler: handler.NewDepreciationHandler(depreciationUC),
		HealthHandler:       handler.NewHealthHandler(store.pinger, redisHealth),
		IdempotencyStore:    idempotency,
		IdempotencyTTL:      cfg.IdempotencyTTL,
		MetricsHandler:      promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		Logger:              log,
	}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithHitCounter(m.RateLimitHits)
		routerCfg.RateLimiter = a.rateLimiter
	}

	if cfg.AuthEnabled {
		routerCfg.TokenVerifier = auth.NewJWTVerifier(cfg.JWTSecret)
		log.Info().Msg("bearer authentication enabled")
	}

	a.handler = httpAdapter.NewRouter(routerCfg)
	a.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: store.outbox,
		Publisher:  publisher,
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.Outbox.BatchSize,
		Interval:   cfg.Outbox.PollInterval,
	})

	return a, nil
}
