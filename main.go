package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collabhub/config"
	"collabhub/database"
	"collabhub/database/docstore"
	"collabhub/handlers"
	"collabhub/middleware"
	"collabhub/routes"
	"collabhub/services/account"
	"collabhub/services/project"
	"collabhub/services/registration"
	"collabhub/services/search"
	"collabhub/services/storage"
	"collabhub/utils"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	logger, err := utils.NewLogger(cfg)
	if err != nil {
		log.Fatalf("main: failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app *firebase.App
	if cfg.NeedsFirebase() {
		if app, err = utils.NewFirebaseApp(ctx, cfg); err != nil {
			logger.Fatal("main: failed to initialize firebase", zap.Error(err))
		}
	}

	store, closeStore, err := database.OpenDocStore(ctx, cfg, app, logger)
	if err != nil {
		logger.Fatal("main: failed to open document store", zap.Error(err))
	}
	defer closeStore()

	health := utils.NewHealthMonitor(30 * time.Second)
	if p, ok := store.(docstore.Pinger); ok {
		health.Register("docstore", p.Ping)
	}

	var sessions registration.SessionStore
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, registration sessions kept in memory")
		sessions = registration.NewMemorySessionStore()
	} else {
		cache, err := utils.NewSessionCache(cfg)
		if err != nil {
			logger.Fatal("main: failed to connect to redis", zap.Error(err))
		}
		defer cache.Close()
		health.Register("redis", func(ctx context.Context) error { return cache.Ping(ctx).Err() })
		secret := cfg.SessionSecret
		if secret == "" {
			logger.Warn("SESSION_SECRET not set, registration sessions will not survive a restart")
			secret = uuid.NewString()
		}
		if sessions, err = registration.NewRedisSessionStore(cache, secret, logger); err != nil {
			logger.Fatal("main: failed to initialize session store", zap.Error(err))
		}
	}

	accounts, err := account.New(ctx, cfg, app, store, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize accounts", zap.Error(err))
	}
	uploads, err := storage.NewService(cfg.CloudinaryURL, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize uploads", zap.Error(err))
	}

	hb := handlers.NewHandlerBundle(cfg, handlers.Services{
		Registration: registration.NewService(sessions, accounts, logger),
		Search:       search.NewComposer(store, logger, cfg.SearchDefaultLimit, cfg.SearchMaxLimit),
		Projects:     project.NewService(store, logger),
		Storage:      uploads,
		Health:       health,
	}, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))
	routes.RegisterRoutes(router, hb, accounts)

	health.Start(ctx)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server",
		zap.String("addr", srv.Addr),
		zap.String("docstore", cfg.DocstoreDriver),
		zap.String("auth", cfg.AuthProvider))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}
