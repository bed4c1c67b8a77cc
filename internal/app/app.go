package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/stash/internal/auth"
	"github.com/MrSnakeDoc/stash/internal/config"
	"github.com/MrSnakeDoc/stash/internal/httpserver"
	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/library"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/redis"
	"github.com/MrSnakeDoc/stash/internal/resolver"
	"github.com/MrSnakeDoc/stash/internal/scheduler"
	"github.com/MrSnakeDoc/stash/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/stash/internal/store/redis"
	"github.com/MrSnakeDoc/stash/internal/version"
)

// store is everything the app needs from persistence. Both the Redis and
// the memory store satisfy it.
type store interface {
	library.Repository
	auth.UserRepository
	scheduler.TrashStore
	deps.Pinger
}

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	trash       *scheduler.TrashCollector
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Everything that can fail without I/O is checked before Redis is
	// dialed; nothing after openStore returns an error.
	sessions, err := auth.NewSessions(cfg.SessionSecret, cfg.SecureCookies)
	if err != nil {
		return nil, err
	}

	st, redisClient, err := openStore(cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	res := newResolver(cfg, loggerClient, registry, redisClient, st)

	trash := scheduler.NewTrashCollector(
		st,
		loggerClient,
		cfg.TrashGCInterval,
		cfg.TrashRetention,
	)

	// Dependencies passed to routes.
	d := deps.Deps{
		Logger:               loggerClient,
		StartTime:            time.Now(),
		Version:              version.Version,
		Commit:               version.Commit,
		BuildDate:            version.BuildDate,
		GoVersion:            version.GoVersion,
		TimeNow:              time.Now,
		AllowedHosts:         cfg.AllowedHosts,
		AllowedCIDRS:         cfg.AllowedCIDRS,
		TrustProxy:           cfg.TrustProxy,
		StoreName:            cfg.Store,
		Store:                st,
		Resolver:             res,
		Library:              library.New(st, res, loggerClient),
		Auth:                 auth.NewService(st, loggerClient),
		Sessions:             sessions,
		Gatherer:             registry,
		MetadataBurst:        cfg.MetadataBurst,
		MetadataRefillPerMin: cfg.MetadataRefillPerMin,
		MaxImportBytes:       int64(cfg.ImportMaxBytes),
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		trash:       trash,
	}, nil
}

// openStore connects the configured backend. Redis is dialed early so a
// misconfiguration fails fast.
func openStore(cfg *config.Config, log logger.Logger) (store, *goredis.Client, error) {
	if cfg.Store == config.StoreMemory {
		log.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil, nil
	}

	redisClient, err := redis.New(context.Background(), redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("Redis initialized successfully")

	return redisstore.NewStore(redisClient), redisClient, nil
}

// newResolver wires the fetcher, the preview cache tiers and metrics.
func newResolver(cfg *config.Config, log logger.Logger, reg prometheus.Registerer, redisClient *goredis.Client, st store) *resolver.Resolver {
	fetcher := resolver.NewHTTPFetcher(resolver.FetcherOptions{
		Timeout:      cfg.ResolverTimeout,
		MaxRedirects: cfg.ResolverMaxRedirects,
		MaxBodyBytes: cfg.ResolverMaxBodyBytes,
		UserAgent:    cfg.ResolverUserAgent,
		AllowPrivate: cfg.ResolverAllowPrivate,
		Logger:       log.With(logger.String("component", "fetcher")),
	})
	if cfg.ResolverAllowPrivate {
		log.Warn("resolver may fetch private and loopback addresses (STASH_RESOLVER_ALLOW_PRIVATE=true)")
	}

	var tiers resolver.TieredCache
	if cfg.PreviewCacheSize > 0 {
		tiers = append(tiers, resolver.NewLRUCache(cfg.PreviewCacheSize, cfg.PreviewCacheTTL))
	}
	if redisClient != nil {
		if cache, ok := st.(resolver.Cache); ok {
			tiers = append(tiers, cache)
		}
	}

	opts := []resolver.Option{resolver.WithMetrics(resolver.NewMetrics(reg))}
	if len(tiers) > 0 {
		opts = append(opts, resolver.WithCache(tiers, cfg.PreviewCacheTTL))
	}

	return resolver.New(fetcher, resolver.NewGoqueryParser(), log.With(logger.String("component", "resolver")), opts...)
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Stash v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Stash %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start trash collector (purges expired trash now, then periodically)
	if err := a.trash.Start(ctx); err != nil {
		return fmt.Errorf("failed to start trash collector: %w", err)
	}
	a.logger.Info("trash collector started",
		logger.Duration("interval", a.cfg.TrashGCInterval),
		logger.Duration("retention", a.cfg.TrashRetention))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.trash.Stop()
		return err
	}

	// Stop trash collector
	a.trash.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	_ = a.logger.Sync()
	a.logger.Info("✅ Stash stopped cleanly")
	return nil
}
