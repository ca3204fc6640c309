package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/logger"
)

// エラー種別（レスポンスの kind）
const (
	KindValidation       = "validation"
	KindInvalidScore     = "invalid_score"
	KindNotFound         = "not_found"
	KindCapacityExceeded = "capacity_exceeded"
	KindAlreadyBooked    = "already_booked"
	KindConflict         = "conflict"
	KindNotParticipant   = "not_participant"
	KindForbidden        = "forbidden"
	KindUnauthorized     = "unauthorized"
	KindTransient        = "transient"
	KindInternal         = "internal"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// NewHTTPError は種別付きの HTTPError を作成する
func NewHTTPError(code int, kind, message string) *echo.HTTPError {
	return echo.NewHTTPError(code, ErrorResponse{Error: message, Code: code, Kind: kind})
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := ErrorResponse{
		Error: "内部サーバーエラー",
		Code:  http.StatusInternalServerError,
		Kind:  KindInternal,
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		resp.Code = he.Code
		resp.Kind = kindForStatus(he.Code)
		switch m := he.Message.(type) {
		case ErrorResponse:
			resp = m
			resp.Code = he.Code
		case string:
			resp.Error = m
		default:
			resp.Error = http.StatusText(he.Code)
		}
	}

	if resp.Code >= 500 {
		logger.FromContext(c.Request().Context()).Error("サーバーエラー",
			zap.Int("status", resp.Code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(resp.Code)
	} else {
		err = c.JSON(resp.Code, resp)
	}
	if err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}

// kindForStatus は echo 標準のエラー（404ルート、Bind 失敗など）に種別を補う
func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusServiceUnavailable:
		return KindTransient
	}
	if code >= 500 {
		return KindInternal
	}
	return ""
}
