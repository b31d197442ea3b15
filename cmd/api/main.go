// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/carterperez-dev/messhall/internal/admin"
	"github.com/carterperez-dev/messhall/internal/auth"
	"github.com/carterperez-dev/messhall/internal/booking"
	"github.com/carterperez-dev/messhall/internal/config"
	"github.com/carterperez-dev/messhall/internal/core"
	"github.com/carterperez-dev/messhall/internal/health"
	"github.com/carterperez-dev/messhall/internal/meallist"
	"github.com/carterperez-dev/messhall/internal/menu"
	"github.com/carterperez-dev/messhall/internal/middleware"
	"github.com/carterperez-dev/messhall/internal/notice"
	"github.com/carterperez-dev/messhall/internal/notify"
	"github.com/carterperez-dev/messhall/internal/server"
	"github.com/carterperez-dev/messhall/internal/user"
)

const (
	drainDelay = 5 * time.Second

	sessionPruneEvery     = time.Hour
	sessionPruneRetention = 24 * time.Hour
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	//nolint:errcheck // .env is optional
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(ctx, db.DB.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	if !cfg.IsProduction() {
		created, keyErr := auth.EnsureKeyPair(cfg.JWT)
		if keyErr != nil {
			return keyErr
		}
		if created {
			logger.Warn("generated development signing key",
				"path", cfg.JWT.PrivateKeyPath,
			)
		}
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	dispatcher := notify.NewDispatcher(cfg.Notify, logger)
	dispatcher.Start()

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	notifier := notify.NewNotifier(notify.NotifierConfig{
		Queue:     dispatcher,
		Pusher:    newPusher(ctx, cfg.Push, logger),
		Mailer:    newMailer(cfg.Mail, logger),
		Tokens:    userSvc,
		PublicURL: cfg.App.PublicURL,
		Team:      cfg.Mail.FromName,
		Logger:    logger,
	})
	notifyHandler := notify.NewHandler(notifier)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		authRepo,
		jwtManager,
		auth.NewActionTokens(cfg.Tokens),
		userSvc,
		notifier,
		redis,
	)
	authHandler := auth.NewHandler(authSvc)

	window := booking.NewWindow(cfg.Booking)

	menuSvc := menu.NewService(menu.NewRepository(db.DB), notifier)
	menuHandler := menu.NewHandler(menuSvc)

	bookingSvc := booking.NewService(
		db,
		booking.NewStores,
		booking.NewRepository(db.DB),
		userSvc,
		window,
		core.SystemClock{},
	)
	bookingHandler := booking.NewHandler(bookingSvc)

	mealListSvc := meallist.NewService(meallist.NewRepository(db.DB), window, core.SystemClock{})
	mealListHandler := meallist.NewHandler(mealListSvc)

	noticeHandler := notice.NewHandler(notice.NewService(notice.NewRepository(db.DB)))

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:     db.Stats,
		RedisStats:  redis.PoolStats,
		DBPing:      db.Ping,
		RedisPing:   redis.Ping,
		NotifyStats: dispatcher.Stats,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.MaxBodyBytes(cfg.Server.MaxBodyBytes))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	authenticator := middleware.Authenticator(authSvc)

	sensitiveLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(10, 5),
		KeyFunc:  middleware.KeyByIP,
		FailOpen: true,
	}).Handler
	writeLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(30, 10),
		KeyFunc:  middleware.KeyByUserAndEndpoint,
		FailOpen: true,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, sensitiveLimit)
		userHandler.RegisterRoutes(r, authenticator, middleware.RequireMessCommittee)
		menuHandler.RegisterRoutes(r, authenticator, middleware.RequireConvenor)
		bookingHandler.RegisterRoutes(r, authenticator, writeLimit)
		mealListHandler.RegisterRoutes(
			r,
			authenticator,
			middleware.RequireAdmin,
			middleware.RequireConvenor,
		)
		noticeHandler.RegisterRoutes(r, authenticator, middleware.RequireAdmin)
		notifyHandler.RegisterRoutes(r, authenticator, middleware.RequireAdmin)
		adminHandler.RegisterRoutes(r, authenticator, middleware.RequireMessCommittee)
	})

	go pruneSessions(ctx, authSvc, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := dispatcher.Stop(shutdownCtx); err != nil {
		logger.Error("notification drain error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func newPusher(ctx context.Context, cfg config.PushConfig, logger *slog.Logger) notify.Pusher {
	if cfg.CredentialsFile == "" {
		logger.Info("push notifications disabled, logging instead")
		return notify.LogPusher{Logger: logger}
	}

	pusher, err := notify.NewFCMPusher(ctx, cfg.CredentialsFile, logger)
	if err != nil {
		logger.Warn("firebase unavailable, logging push notifications", "error", err)
		return notify.LogPusher{Logger: logger}
	}
	return pusher
}

func newMailer(cfg config.MailConfig, logger *slog.Logger) notify.Mailer {
	if !cfg.Enabled() {
		logger.Info("smtp not configured, logging emails instead")
		return notify.LogMailer{Logger: logger}
	}

	mailer, err := notify.NewSMTPMailer(cfg)
	if err != nil {
		logger.Warn("smtp unavailable, logging emails", "error", err)
		return notify.LogMailer{Logger: logger}
	}
	return mailer
}

func pruneSessions(ctx context.Context, svc *auth.Service, logger *slog.Logger) {
	ticker := time.NewTicker(sessionPruneEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PruneSessions(ctx, sessionPruneRetention)
			if err != nil {
				logger.Warn("session prune failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("expired sessions pruned", "count", n)
			}
		}
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
