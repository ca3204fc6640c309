package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/sarali19/Eventful-Event-management-platform/internal/api/handler"
	"github.com/sarali19/Eventful-Event-management-platform/internal/api/router"
	"github.com/sarali19/Eventful-Event-management-platform/internal/application"
	"github.com/sarali19/Eventful-Event-management-platform/internal/config"
	"github.com/sarali19/Eventful-Event-management-platform/internal/infrastructure/postgres"
	redisinfra "github.com/sarali19/Eventful-Event-management-platform/internal/infrastructure/redis"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/metrics"
)

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	Echo *echo.Echo
}

var (
	testServer  *TestServer
	testDB      *sqlx.DB
	redisClient *redis.Client
)

// TestMain はE2Eテストのエントリポイント
// パッケージ全体で1回だけサーバーを起動する。DB 未起動時はスキップ、Redis は任意
func TestMain(m *testing.M) {
	cfg := config.Load()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		os.Exit(0)
	}
	testDB = db
	if err := postgres.RunMigrations(db.DB, "../migrations"); err != nil {
		db.Close()
		os.Exit(0)
	}

	met := metrics.NewWithRegistry(prometheus.NewRegistry())
	opts := application.Options{Metrics: met, MaxAttempts: 5}

	var statsCache application.StatsCache
	if rc, err := redisinfra.NewClient(&cfg.Redis); err == nil {
		redisClient = rc
		opts.Locker = application.NewRedisEventLocker(redisinfra.NewLockManager(rc, met), application.LockWaitBudget(cfg.Database.LockTimeout, opts))
		statsCache = redisinfra.NewEventStatsCache(rc)
	}
	opts.Cache = statsCache

	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	txManager := postgres.NewTxManager(db, cfg.Database.LockTimeout)

	ratingService := application.NewRatingService(txManager, eventRepo, userRepo, participantRepo, ratingRepo, opts)
	e := router.New(router.Handlers{
		Event:   handler.NewEventHandler(application.NewEventService(eventRepo, userRepo, statsCache)),
		Booking: handler.NewBookingHandler(application.NewBookingService(txManager, eventRepo, userRepo, participantRepo, opts)),
		Rating:  handler.NewRatingHandler(ratingService),
		User:    handler.NewUserHandler(application.NewUserService(userRepo, 4)),
		Health:  handler.NewHealthHandler(nil),
	}, router.Options{})

	testServer = &TestServer{Echo: e}

	code := m.Run()

	cleanupTables()
	if redisClient != nil {
		redisClient.Close()
	}
	db.Close()

	os.Exit(code)
}

// cleanupTables はテーブルとキャッシュをクリーンアップ
func cleanupTables() {
	testDB.Exec("TRUNCATE TABLE event_ratings, event_participants, events, users CASCADE")
	if redisClient != nil {
		redisClient.FlushDB(context.Background())
	}
}

// getTestServer は共有サーバーを取得（テスト前にテーブルをクリーンアップ）
func getTestServer(t *testing.T) *TestServer {
	t.Helper()
	if testServer == nil {
		t.Skip("テスト環境が利用できません")
	}
	cleanupTables()
	return testServer
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}
