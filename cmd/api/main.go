package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sarali19/Eventful-Event-management-platform/internal/api/handler"
	"github.com/sarali19/Eventful-Event-management-platform/internal/api/middleware"
	"github.com/sarali19/Eventful-Event-management-platform/internal/api/router"
	"github.com/sarali19/Eventful-Event-management-platform/internal/application"
	"github.com/sarali19/Eventful-Event-management-platform/internal/config"
	"github.com/sarali19/Eventful-Event-management-platform/internal/infrastructure/postgres"
	"github.com/sarali19/Eventful-Event-management-platform/internal/infrastructure/rabbitmq"
	redisinfra "github.com/sarali19/Eventful-Event-management-platform/internal/infrastructure/redis"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/logger"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/metrics"
	"github.com/sarali19/Eventful-Event-management-platform/internal/worker"
)

func main() {
	cfg := config.Load()
	logger.Set(logger.NewLogger(cfg.AppEnv))
	defer func() { _ = logger.Sync() }()

	m := metrics.Init()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("DB接続エラー", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	checks := map[string]handler.CheckFunc{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}

	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	txManager := postgres.NewTxManager(db, cfg.Database.LockTimeout)

	opts := application.Options{
		Metrics:              m,
		MaxAttempts:          cfg.Booking.MaxAttempts,
		RetryBackoff:         cfg.Booking.RetryBackoff,
		RequireBookingToRate: cfg.Booking.RequireBookingToRate,
	}

	// Redis（任意）: イベント単位の分散ロックと集計キャッシュ
	var (
		statsCache  application.StatsCache
		runLocker   worker.RunLocker
		redisCloser func() error
	)
	if cfg.Redis.Enabled {
		rc, err := redisinfra.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redisに接続できないため、ロックとキャッシュなしで起動します", zap.Error(err))
		} else {
			redisCloser = rc.Close
			lockManager := redisinfra.NewLockManager(rc, m)
			opts.Locker = application.NewRedisEventLocker(lockManager, application.LockWaitBudget(cfg.Database.LockTimeout, opts))
			statsCache = redisinfra.NewEventStatsCache(rc)
			runLocker = worker.NewRedisRunLocker(lockManager)
			checks["redis"] = func(ctx context.Context) error { return redisinfra.Ping(ctx, rc) }
		}
	}
	opts.Cache = statsCache
	if redisCloser != nil {
		defer func() { _ = redisCloser() }()
	}

	// RabbitMQ（任意）: 予約・評価の通知
	if cfg.RabbitMQ.URL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger.Get())
		if err != nil {
			logger.Warn("RabbitMQに接続できないため、通知なしで起動します", zap.Error(err))
		} else {
			opts.Publisher = pub
			defer func() { _ = pub.Close() }()
		}
	}

	eventService := application.NewEventService(eventRepo, userRepo, statsCache)
	bookingService := application.NewBookingService(txManager, eventRepo, userRepo, participantRepo, opts)
	ratingService := application.NewRatingService(txManager, eventRepo, userRepo, participantRepo, ratingRepo, opts)
	userService := application.NewUserService(userRepo, cfg.Auth.BcryptCost)

	e := router.New(router.Handlers{
		Event:   handler.NewEventHandler(eventService),
		Booking: handler.NewBookingHandler(bookingService),
		Rating:  handler.NewRatingHandler(ratingService),
		User:    handler.NewUserHandler(userService),
		Health:  handler.NewHealthHandler(checks),
	}, router.Options{
		JWTSecret:   cfg.Auth.JWTSecret,
		Metrics:     m,
		MetricsAuth: middleware.LoadMetricsConfig(),
	})
	e.HideBanner = cfg.IsProduction()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// 平均評価の定期再計算
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var reconciler *worker.RatingReconciler
	if cfg.Booking.ReconcileInterval > 0 {
		reconciler = worker.NewRatingReconciler(ratingService, runLocker, cfg.Booking.ReconcileInterval)
		go reconciler.Start(ctx)
	}

	go func() {
		logger.Info("サーバーを起動します", zap.String("port", cfg.Server.Port), zap.String("env", cfg.AppEnv))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	if reconciler != nil {
		reconciler.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
