package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

// SuccessResponse は予約・評価の成功レスポンス
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

type ParticipantResponse struct {
	EventID  string `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID   string `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	BookedAt string `json:"booked_at" example:"2025-06-01T10:00:00+09:00"`
}

// Book godoc
// @Summary イベントを予約
// @Description 空席があれば1席確保します。同じユーザーの重複予約はできません
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "イベントID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "capacity_exceeded / already_booked"
// @Failure 503 {object} api.ErrorResponse "transient"
// @Router /events/{id}/book [post]
func (h *BookingHandler) Book(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if _, err := h.service.BookEvent(c.Request().Context(), c.Param("id"), id.UserID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// ListParticipants godoc
// @Summary イベントの参加者一覧を取得
// @Tags bookings
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {array} ParticipantResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id}/participants [get]
func (h *BookingHandler) ListParticipants(c echo.Context) error {
	participants, err := h.service.ListParticipants(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	responses := make([]ParticipantResponse, len(participants))
	for i, p := range participants {
		responses[i] = ParticipantResponse{
			EventID:  p.EventID,
			UserID:   p.UserID,
			BookedAt: p.BookedAt.Format(time.RFC3339),
		}
	}
	return c.JSON(http.StatusOK, responses)
}
