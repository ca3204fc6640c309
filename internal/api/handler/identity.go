package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sarali19/Eventful-Event-management-platform/internal/api"
	"github.com/sarali19/Eventful-Event-management-platform/internal/api/middleware"
)

// requireIdentity はリクエスト元のユーザーを返す。特定できなければ 401
func requireIdentity(c echo.Context) (middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return middleware.Identity{}, api.NewHTTPError(http.StatusUnauthorized, api.KindUnauthorized, "ユーザーIDが必要です")
	}
	return id, nil
}
