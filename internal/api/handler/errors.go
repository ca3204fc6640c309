package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sarali19/Eventful-Event-management-platform/internal/api"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/booking"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/event"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/rating"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/user"
)

type errorMapping struct {
	target error
	status int
	kind   string
}

// 上から順に errors.Is で照合する
var errorMappings = []errorMapping{
	{event.ErrEventNotFound, http.StatusNotFound, api.KindNotFound},
	{user.ErrUserNotFound, http.StatusNotFound, api.KindNotFound},
	{rating.ErrRatingNotFound, http.StatusNotFound, api.KindNotFound},

	{event.ErrCapacityExceeded, http.StatusConflict, api.KindCapacityExceeded},
	{booking.ErrAlreadyBooked, http.StatusConflict, api.KindAlreadyBooked},
	{event.ErrOptimisticLockConflict, http.StatusConflict, api.KindConflict},
	{user.ErrEmailAlreadyExists, http.StatusConflict, api.KindConflict},

	{rating.ErrNotParticipant, http.StatusForbidden, api.KindNotParticipant},
	{event.ErrNotOrganizer, http.StatusForbidden, api.KindForbidden},

	{rating.ErrInvalidScore, http.StatusBadRequest, api.KindInvalidScore},
	{event.ErrTitleRequired, http.StatusBadRequest, api.KindValidation},
	{event.ErrEventDateRequired, http.StatusBadRequest, api.KindValidation},
	{event.ErrCityRequired, http.StatusBadRequest, api.KindValidation},
	{event.ErrLocationRequired, http.StatusBadRequest, api.KindValidation},
	{event.ErrInvalidCategory, http.StatusBadRequest, api.KindValidation},
	{event.ErrInvalidPrice, http.StatusBadRequest, api.KindValidation},
	{event.ErrInvalidCapacity, http.StatusBadRequest, api.KindValidation},
	{event.ErrInvalidOccupancy, http.StatusBadRequest, api.KindValidation},
	{event.ErrInvalidEventTime, http.StatusBadRequest, api.KindValidation},
	{event.ErrOrganizerRequired, http.StatusBadRequest, api.KindValidation},
	{user.ErrFullNameRequired, http.StatusBadRequest, api.KindValidation},
	{user.ErrInvalidEmail, http.StatusBadRequest, api.KindValidation},
	{user.ErrInvalidRole, http.StatusBadRequest, api.KindValidation},
	{user.ErrPasswordRequired, http.StatusBadRequest, api.KindValidation},

	{transaction.ErrTransient, http.StatusServiceUnavailable, api.KindTransient},
}

// toHTTPError はサービス層のエラーをステータスと種別付きの HTTPError に変換する
// 未知のエラーは 500 とし、内部エラーはレスポンスに含めずログ用に保持する
func toHTTPError(err error) *echo.HTTPError {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return api.NewHTTPError(m.status, m.kind, m.target.Error())
		}
	}
	return api.NewHTTPError(http.StatusInternalServerError, api.KindInternal, "内部サーバーエラー").SetInternal(err)
}

func badRequest(message string) *echo.HTTPError {
	return api.NewHTTPError(http.StatusBadRequest, api.KindValidation, message)
}
