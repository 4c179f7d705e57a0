package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/pathcraft/backend/api/handler"
	"github.com/pathcraft/backend/internal/config"
	"github.com/pathcraft/backend/internal/infrastructure/monitor"
	pgInfra "github.com/pathcraft/backend/internal/infrastructure/postgres"
	"github.com/pathcraft/backend/internal/infrastructure/queue"
	redisInfra "github.com/pathcraft/backend/internal/infrastructure/redis"
	"github.com/pathcraft/backend/internal/middleware"
	"github.com/pathcraft/backend/internal/router"
	"github.com/pathcraft/backend/internal/services"
	"github.com/pathcraft/backend/internal/services/lifecycle"
	"github.com/pathcraft/backend/pkg/httpcontext"
	"github.com/pathcraft/backend/pkg/logger"
	"github.com/pathcraft/backend/repository/postgres"
	redisRepo "github.com/pathcraft/backend/repository/redis"
	activityUC "github.com/pathcraft/backend/usecase/activity"
	authUC "github.com/pathcraft/backend/usecase/auth"
	notificationUC "github.com/pathcraft/backend/usecase/notification"
	pathUC "github.com/pathcraft/backend/usecase/path"
	progressUC "github.com/pathcraft/backend/usecase/progress"
	userUC "github.com/pathcraft/backend/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	queueStore, err := queue.Open(cfg.Queue.Path, "notifications")
	if err != nil {
		zapLogger.Fatal("failed to open notification queue", zap.Error(err))
	}
	manager.Register("notification_queue", func(ctx context.Context) error {
		return queueStore.Close()
	})

	mon := monitor.New(pool, redisClient, queueStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	pathRepo := postgres.NewPathRepository(pool)
	progressRepo := postgres.NewProgressRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.TokenTTL)

	dispatcher := services.NewNotificationDispatcher(
		queueStore,
		mon,
		notificationRepo,
		zapLogger,
		services.DispatcherConfig{
			Interval:   cfg.Queue.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Queue.MaxRetry,
			Retention:  time.Duration(cfg.Queue.RetentionHours) * time.Hour,
		},
	)
	dispatcher.Start()
	manager.Register("notification_dispatcher", func(ctx context.Context) error {
		dispatcher.Stop(ctx)
		return nil
	})

	notifier := services.NewNotifierBridge(dispatcher)

	authUseCase := authUC.New(userRepo, sessionRepo, authUC.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		TokenTTL: cfg.JWT.TokenTTL,
	}, zapLogger)
	userUseCase := userUC.New(userRepo, pathRepo, zapLogger)
	pathUseCase := pathUC.New(pathRepo, userRepo, notifier, zapLogger)
	progressUseCase := progressUC.New(progressRepo, pathRepo, notifier, zapLogger)
	activityUseCase := activityUC.New(userRepo, notifier, zapLogger)
	notificationUseCase := notificationUC.New(notificationRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:         apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		User:         apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Path:         apiHandler.NewPathHandler(pathUseCase, ctxAdapter, zapLogger),
		Progress:     apiHandler.NewProgressHandler(progressUseCase, ctxAdapter, zapLogger),
		Activity:     apiHandler.NewActivityHandler(activityUseCase, ctxAdapter, zapLogger),
		Notification: apiHandler.NewNotificationHandler(notificationUseCase, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
