package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bgr/internal/config"
	"github.com/MrSnakeDoc/bgr/internal/httpserver"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bgr/internal/index"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/reconcile"
	"github.com/MrSnakeDoc/bgr/internal/redis"
	"github.com/MrSnakeDoc/bgr/internal/review"
	"github.com/MrSnakeDoc/bgr/internal/scheduler"
	"github.com/MrSnakeDoc/bgr/internal/similarity"
	"github.com/MrSnakeDoc/bgr/internal/sources/bgg"
	"github.com/MrSnakeDoc/bgr/internal/sources/seed"
	"github.com/MrSnakeDoc/bgr/internal/stats"
	redisstore "github.com/MrSnakeDoc/bgr/internal/store/redis"
	"github.com/MrSnakeDoc/bgr/internal/taxonomy"
	"github.com/MrSnakeDoc/bgr/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	hotSync     *scheduler.HotListSyncer
	seeder      *seed.Seeder
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	memIndex := index.NewMemoryIndex()
	repos := memIndex.Repositories()

	var (
		redisClient *goredis.Client
		store       *redisstore.Store
		cache       bgg.PayloadCache
		pinger      deps.Pinger
	)
	if cfg.Storage == config.StorageRedis {
		// Fail fast if Redis is unavailable
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
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
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")

		redisClient = client
		store = redisstore.NewStore(client, cfg.PayloadCacheTTL)
		pinger = store
		if cfg.PayloadCacheTTL > 0 {
			cache = store
		}

		// The index serves reads, so it must hold everything Redis has before the first request
		syncer := scheduler.NewRedisSyncer(store, memIndex, loggerClient)
		if err := syncer.Sync(context.Background()); err != nil {
			loggerClient.Errorf("Failed to load the catalog from Redis: %v", err)
			os.Exit(1)
		}

		repos = memIndex.WriteThrough(index.Repositories{
			Games:   store.Games(),
			Reviews: store.Reviews(),
			Users:   store.Users(),
		})
	} else {
		loggerClient.Warn("memory storage selected, data is lost on restart")
	}

	// Remote catalog
	fetcher := bgg.NewFetcher(bgg.FetcherConfig{
		BaseURL:          cfg.BGGBaseURL,
		UserAgent:        cfg.BGGUserAgent + version.UserAgentSuffix(),
		Timeout:          cfg.BGGRequestTimeout,
		Limiter:          bgg.NewRateLimiter(cfg.BGGRequestInterval),
		BreakerThreshold: uint32(max(cfg.BGGBreakerThreshold, 1)),
		BreakerTimeout:   cfg.BGGBreakerTimeout,
	}, loggerClient)
	client := bgg.NewClient(fetcher, bgg.RetryPolicy{
		Attempts: cfg.BGGRetryAttempts,
		Delay:    cfg.BGGRetryDelay,
	}, cache, loggerClient)

	// Reconciliation
	matcher := similarity.NewMatcher(repos.Games, similarity.Thresholds{
		Name:      cfg.NameSimilarityThreshold,
		Localized: cfg.LocalizedSimilarityThreshold,
	}, loggerClient)
	reconciler := reconcile.NewService(client, repos.Games, taxonomy.Default(), matcher, loggerClient)

	// Reviews
	policy, err := review.LoadRulepack(cfg.RulepackFile)
	if err != nil {
		loggerClient.Errorf("Failed to load review rulepack: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("review content policy loaded",
		logger.String("file", cfg.RulepackFile),
		logger.Strings("rules", policy.Rules()))
	validator := review.NewValidator(repos.Reviews, policy, loggerClient)
	reviews := review.NewService(repos.Reviews, repos.Users, repos.Games, validator, loggerClient)

	// Hot list sync (optional)
	var (
		hotSync     *scheduler.HotListSyncer
		syncTrigger chan struct{}
	)
	if cfg.HotSyncEnabled {
		syncTrigger = make(chan struct{}, 1)
		hotSync = scheduler.NewHotListSyncer(client, reconciler, loggerClient, cfg.HotSyncInterval, syncTrigger)
	} else {
		loggerClient.Info("hot-list sync disabled")
	}

	// Startup seed (optional)
	var seeder *seed.Seeder
	if cfg.SeedFile != "" {
		file, err := seed.NewLoader(cfg.SeedFile).Load()
		if err != nil {
			loggerClient.Errorf("Failed to load seed file: %v", err)
			os.Exit(1)
		}
		plan, err := seed.Map(file)
		if err != nil {
			loggerClient.Errorf("Failed to map seed file: %v", err)
			os.Exit(1)
		}
		for _, s := range plan.Skipped {
			loggerClient.Warn("seed entry skipped", logger.String("entry", s))
		}
		seeder = seed.NewSeeder(plan, reconciler, repos.Games, repos.Users, loggerClient)
	}

	// Dependencies passed to routes
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		AllowedOrigins: cfg.AllowedOrigins,
		RateBurst:      cfg.RateBurst,
		RatePerMinute:  cfg.RatePerMinute,
		StorageMode:    cfg.Storage,
		Storage:        pinger,
		MemoryIndex:    memIndex,
		Games:          repos.Games,
		Users:          repos.Users,
		Catalog:        client,
		Reconciler:     reconciler,
		Reviews:        reviews,
		Stats:          stats.NewService(repos.Games, repos.Reviews),
		SyncTrigger:    syncTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		memIndex:    memIndex,
		hotSync:     hotSync,
		seeder:      seeder,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting bgr v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("bgr %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)
	a.logger.Info("catalog loaded",
		logger.String("storage", a.cfg.Storage),
		logger.Int("games", a.memIndex.GameCount()),
		logger.Int("reviews", a.memIndex.ReviewCount()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.hotSync != nil {
		a.hotSync.Start(ctx)
		a.logger.Info("hot-list syncer started",
			logger.Duration("interval", a.cfg.HotSyncInterval))
	}

	if a.seeder != nil {
		go func() {
			if _, err := a.seeder.Run(ctx); err != nil {
				a.logger.Error("seed run failed", logger.Error(err))
			}
		}()
	}

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
		return err
	}

	if a.hotSync != nil {
		a.hotSync.Stop()
	}

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
	a.logger.Info("✅ bgr stopped cleanly")
	return nil
}
