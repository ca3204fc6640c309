package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sarali19/Eventful-Event-management-platform/internal/api"
	"github.com/sarali19/Eventful-Event-management-platform/internal/api/handler"
	"github.com/sarali19/Eventful-Event-management-platform/internal/api/middleware"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/user"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/metrics"
)

// Handlers はルーティング対象のハンドラー
type Handlers struct {
	Event   *handler.EventHandler
	Booking *handler.BookingHandler
	Rating  *handler.RatingHandler
	User    *handler.UserHandler
	Health  *handler.HealthHandler
}

// Options はルーターの設定
type Options struct {
	// JWTSecret が空なら X-User-ID / X-User-Role ヘッダーでユーザーを特定する
	JWTSecret string
	// Metrics が nil なら /metrics を公開しない
	Metrics     *metrics.Metrics
	MetricsAuth *middleware.MetricsConfig
}

// New はミドルウェアとルートを設定した Echo を作成する
func New(h Handlers, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	middleware.SetupMiddleware(e, opts.JWTSecret)
	if opts.Metrics != nil {
		e.Use(middleware.PrometheusMiddleware(opts.Metrics))
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(opts.MetricsAuth))
	}

	e.GET("/health", h.Health.Check)

	v1 := e.Group("/api/v1")
	v1.GET("/health", h.Health.Check)

	requireUser := middleware.RequireUser()

	// 固定パスは :id より先に登録する
	v1.GET("/events/organizer", h.Event.ListMine, middleware.RequireRole(user.RoleOrganizer))
	v1.GET("/events/bookings", h.Event.ListBooked, requireUser)

	v1.POST("/events", h.Event.Create, middleware.RequireRole(user.RoleOrganizer))
	v1.GET("/events", h.Event.List)
	v1.GET("/events/:id", h.Event.GetByID)
	v1.PUT("/events/:id", h.Event.Update, requireUser)
	v1.DELETE("/events/:id", h.Event.Delete, requireUser)
	v1.GET("/events/:id/stats", h.Event.Stats)

	v1.POST("/events/:id/book", h.Booking.Book, requireUser)
	v1.GET("/events/:id/participants", h.Booking.ListParticipants)

	v1.POST("/events/:id/rate", h.Rating.Rate, requireUser)
	v1.GET("/event-ratings/event/:id", h.Rating.ListByEvent)
	v1.GET("/event-ratings/user/:id", h.Rating.ListByUser)

	v1.POST("/users", h.User.Register)
	v1.GET("/users/:id", h.User.GetByID)

	return e
}
