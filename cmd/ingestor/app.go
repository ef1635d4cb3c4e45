package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"content_metrics/internal/config"
	"content_metrics/internal/lock"
	"content_metrics/internal/provider"
	"content_metrics/internal/provider/instagram"
	"content_metrics/internal/provider/tiktok"
	"content_metrics/internal/provider/youtube"
	"content_metrics/internal/publishdate"
	"content_metrics/internal/publisher"
	"content_metrics/internal/service"
	"content_metrics/internal/storage/mongo"
	"content_metrics/internal/storage/postgres"
	"content_metrics/internal/timeseries"
)

const connectTimeout = 10 * time.Second

// app holds the wired services of one CLI invocation.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	registry  *provider.Registry
	ingest    *service.IngestService
	analytics *service.AnalyticsService

	closers []func()
}

func newApp(configPath string, withPublisher bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := setupLogger(cfg.LogLevel)
	a := &app{cfg: cfg, logger: logger}

	if err := a.wire(withPublisher); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(withPublisher bool) error {
	cfg := a.cfg
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	loc, err := cfg.Analytics.Location()
	if err != nil {
		return err
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	a.closers = append(a.closers, func() { _ = db.Close() })
	a.logger.Info("connected to database")

	contents := postgres.NewContentStore(db)
	sweepState := postgres.NewSweepStateStore(db)

	var metrics service.MetricsStore
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		mdb, err := mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = mdb.Client().Disconnect(context.Background()) })

		store := mongo.NewMetricsStore(mdb, cfg.Analytics.Timezone)
		if err := store.EnsureIndexes(ctx); err != nil {
			return err
		}
		metrics = store
		a.logger.Info("using mongo sample store", "database", cfg.Mongo.Database)
	default:
		metrics = postgres.NewMetricsStore(db, cfg.Analytics.Timezone)
	}

	var locker service.Locker
	if cfg.Redis.Enabled {
		rdb, err := lock.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL)
		a.logger.Info("using redis refresh lock", "addr", cfg.Redis.Addr)
	}

	var pub service.Publisher
	if withPublisher && cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, a.logger)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = rabbitMQ.Close() })
		pub = rabbitMQ
	}

	a.registry = newRegistry(cfg.Providers, a.logger)

	a.ingest = service.NewIngestService(
		contents,
		a.registry,
		metrics,
		sweepState,
		locker,
		pub,
		a.logger,
		cfg.Sync,
	)

	a.analytics = service.NewAnalyticsService(
		contents,
		metrics,
		publishdate.NewResolver(a.logger,
			publishdate.WithFallbackAge(time.Duration(cfg.Analytics.FallbackDays)*24*time.Hour),
		),
		timeseries.NewBuilder(loc),
		a.logger,
		cfg.Analytics.PlatformWindowDays,
	)
	return nil
}

func newRegistry(cfg config.ProvidersConfig, logger *slog.Logger) *provider.Registry {
	client := provider.ClientConfig{
		Timeout:        cfg.Timeout,
		MaxAttempts:    cfg.Retry.MaxAttempts,
		InitialBackoff: cfg.Retry.InitialBackoff,
		MaxBackoff:     cfg.Retry.MaxBackoff,
		UserAgent:      cfg.UserAgent,
	}

	registry := provider.NewRegistry()
	if cfg.YouTube.Enabled {
		c := client
		c.BaseURL = cfg.YouTube.BaseURL
		registry.Register(youtube.New(youtube.Config{APIKey: cfg.YouTube.APIKey, ClientConfig: c}, logger))
	}
	if cfg.Instagram.Enabled {
		c := client
		c.BaseURL = cfg.Instagram.BaseURL
		registry.Register(instagram.New(instagram.Config{
			AccessToken:  cfg.Instagram.AccessToken,
			APIVersion:   cfg.Instagram.APIVersion,
			ClientConfig: c,
		}, logger))
	}
	if cfg.TikTok.Enabled {
		c := client
		c.BaseURL = cfg.TikTok.BaseURL
		registry.Register(tiktok.New(tiktok.Config{AccessToken: cfg.TikTok.AccessToken, ClientConfig: c}, logger))
	}

	logger.Info("registered provider adapters", "platforms", registry.Platforms())
	return registry
}

// Close releases connections in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}
