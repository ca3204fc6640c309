package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/logger"
)

// RequestLogger はリクエストの構造化ログを出力するミドルウェア
// request_id 付きのロガーをリクエストのコンテキストに格納し、サービス層のログにも引き継ぐ
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = res.Header().Get(echo.HeaderXRequestID)
			}

			reqLogger := logger.Get().With(zap.String("request_id", requestID))
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), reqLogger)))

			err := next(c)
			if err != nil {
				// ステータスを確定させてからログを出す
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("route", c.Path()),
				zap.String("query", req.URL.RawQuery),
				zap.Int("status", res.Status),
				zap.Int64("size", res.Size),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
				zap.String("user_agent", req.UserAgent()),
			}
			if id, ok := IdentityFrom(c); ok {
				fields = append(fields, logger.UserID(id.UserID))
			}

			l := logger.FromContext(c.Request().Context())
			switch {
			case err != nil && res.Status >= 500:
				l.Error("request failed", append(fields, zap.Error(err))...)
			case res.Status >= 500:
				l.Error("server error", fields...)
			case res.Status >= 400:
				l.Warn("client error", fields...)
			default:
				l.Info("request completed", fields...)
			}

			return nil
		}
	}
}
