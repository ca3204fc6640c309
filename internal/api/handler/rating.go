package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/rating"
)

type RatingHandler struct {
	service RatingServiceInterface
}

func NewRatingHandler(s RatingServiceInterface) *RatingHandler {
	return &RatingHandler{service: s}
}

// RateRequest は評価リクエスト。範囲（1〜5）はサービス層で検証する
type RateRequest struct {
	Rating int `json:"rating" example:"4"`
}

type RatingResponse struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440002"`
	EventID   string `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID    string `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Rating    int    `json:"rating" example:"4"`
	CreatedAt string `json:"created_at" example:"2025-06-01T10:00:00+09:00"`
	UpdatedAt string `json:"updated_at" example:"2025-06-01T10:00:00+09:00"`
}

func toRatingResponses(rs []*rating.Rating) []RatingResponse {
	responses := make([]RatingResponse, len(rs))
	for i, r := range rs {
		responses[i] = RatingResponse{
			ID:        r.ID,
			EventID:   r.EventID,
			UserID:    r.UserID,
			Rating:    r.Score,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
			UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
		}
	}
	return responses
}

// Rate godoc
// @Summary イベントを評価
// @Description 1〜5で評価します。同じユーザーの再評価は上書きされ、平均評価が再計算されます
// @Tags ratings
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "イベントID"
// @Param request body RateRequest true "評価"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} api.ErrorResponse "invalid_score"
// @Failure 403 {object} api.ErrorResponse "not_participant"
// @Failure 404 {object} api.ErrorResponse
// @Failure 503 {object} api.ErrorResponse "transient"
// @Router /events/{id}/rate [post]
func (h *RatingHandler) Rate(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req RateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("リクエストの形式が不正です")
	}
	if _, err := h.service.RateEvent(c.Request().Context(), c.Param("id"), id.UserID, req.Rating); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// ListByEvent godoc
// @Summary イベントの評価一覧を取得
// @Tags ratings
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {array} RatingResponse
// @Router /event-ratings/event/{id} [get]
func (h *RatingHandler) ListByEvent(c echo.Context) error {
	rs, err := h.service.ListByEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toRatingResponses(rs))
}

// ListByUser godoc
// @Summary ユーザーの評価一覧を取得
// @Tags ratings
// @Produce json
// @Param id path string true "ユーザーID"
// @Success 200 {array} RatingResponse
// @Router /event-ratings/user/{id} [get]
func (h *RatingHandler) ListByUser(c echo.Context) error {
	rs, err := h.service.ListByUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toRatingResponses(rs))
}
