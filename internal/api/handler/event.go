package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sarali19/Eventful-Event-management-platform/internal/application"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/event"
)

const dateLayout = "2006-01-02"

type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// EventDetailsRequest は主催者が編集できる項目
type EventDetailsRequest struct {
	Title       string  `json:"title" validate:"required,max=200" example:"サマージャズナイト"`
	Description string  `json:"description" validate:"max=2000" example:"野外ステージでのジャズライブ"`
	EventDate   string  `json:"event_date" validate:"required,datetime=2006-01-02" example:"2025-08-15"`
	StartTime   string  `json:"start_time" validate:"required,datetime=15:04" example:"18:00"`
	EndTime     string  `json:"end_time" validate:"required,datetime=15:04" example:"21:00"`
	City        string  `json:"city" validate:"required" example:"東京"`
	Location    string  `json:"location" validate:"required" example:"日比谷野外音楽堂"`
	Category    string  `json:"category" validate:"required,oneof=CONCERT CONFERENCE SPORTS THEATER WORKSHOP OTHER" example:"CONCERT"`
	Price       float64 `json:"price" validate:"gte=0" example:"4500"`
}

type CreateEventRequest struct {
	EventDetailsRequest
	Capacity int `json:"capacity" validate:"required,gt=0" example:"300"`
}

// UpdateEventRequest は更新リクエスト（定員は変更できない）
type UpdateEventRequest struct {
	EventDetailsRequest
}

type EventResponse struct {
	ID             string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title          string  `json:"title" example:"サマージャズナイト"`
	Description    string  `json:"description" example:"野外ステージでのジャズライブ"`
	EventDate      string  `json:"event_date" example:"2025-08-15"`
	StartTime      string  `json:"start_time" example:"18:00"`
	EndTime        string  `json:"end_time" example:"21:00"`
	City           string  `json:"city" example:"東京"`
	Location       string  `json:"location" example:"日比谷野外音楽堂"`
	Category       string  `json:"category" example:"CONCERT"`
	Price          float64 `json:"price" example:"4500"`
	Capacity       int     `json:"capacity" example:"300"`
	Occupancy      int     `json:"occupancy" example:"120"`
	AvailableSeats int     `json:"available_seats" example:"180"`
	AverageRating  float64 `json:"average_rating" example:"4.2"`
	OrganizerID    string  `json:"organizer_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	CreatedAt      string  `json:"created_at" example:"2025-06-01T10:00:00+09:00"`
	UpdatedAt      string  `json:"updated_at" example:"2025-06-01T10:00:00+09:00"`
}

type StatsResponse struct {
	EventID        string  `json:"event_id"`
	Capacity       int     `json:"capacity"`
	Occupancy      int     `json:"occupancy"`
	AvailableSeats int     `json:"available_seats"`
	AverageRating  float64 `json:"average_rating"`
	RatingCount    int     `json:"rating_count"`
}

func toEventResponse(e *event.Event) *EventResponse {
	return &EventResponse{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		EventDate:      e.EventDate.Format(dateLayout),
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		City:           e.City,
		Location:       e.Location,
		Category:       string(e.Category),
		Price:          e.Price,
		Capacity:       e.Capacity,
		Occupancy:      e.Occupancy,
		AvailableSeats: e.AvailableSeats(),
		AverageRating:  e.AverageRating,
		OrganizerID:    e.OrganizerID,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      e.UpdatedAt.Format(time.RFC3339),
	}
}

func toEventResponses(events []*event.Event) []*EventResponse {
	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return responses
}

func (r EventDetailsRequest) toDetails() (event.Details, error) {
	date, err := time.Parse(dateLayout, r.EventDate)
	if err != nil {
		return event.Details{}, badRequest("開催日の形式が不正です（YYYY-MM-DD）")
	}
	return event.Details{
		Title:       r.Title,
		Description: r.Description,
		EventDate:   date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		City:        r.City,
		Location:    r.Location,
		Category:    event.Category(r.Category),
		Price:       r.Price,
	}, nil
}

// Create godoc
// @Summary イベントを作成
// @Description 新しいイベントを作成します（ORGANIZER のみ）
// @Tags events
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	details, err := req.toDetails()
	if err != nil {
		return err
	}

	e, err := h.eventService.CreateEvent(c.Request().Context(), application.CreateEventInput{
		OrganizerID: id.UserID,
		Details:     details,
		Capacity:    req.Capacity,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	e, err := h.eventService.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// List godoc
// @Summary イベント一覧を取得
// @Description 開催日の昇順で取得します
// @Tags events
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	events, err := h.eventService.ListEvents(c.Request().Context(), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// ListMine godoc
// @Summary 主催イベント一覧を取得
// @Tags events
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Success 200 {array} EventResponse
// @Router /events/organizer [get]
func (h *EventHandler) ListMine(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	events, err := h.eventService.ListByOrganizer(c.Request().Context(), id.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// ListBooked godoc
// @Summary 予約済みイベント一覧を取得
// @Tags events
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Success 200 {array} EventResponse
// @Router /events/bookings [get]
func (h *EventHandler) ListBooked(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	events, err := h.eventService.ListBookedByUser(c.Request().Context(), id.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Update godoc
// @Summary イベントを更新
// @Description 記述項目を更新します（主催者のみ。定員は変更不可）
// @Tags events
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "イベントID"
// @Param request body UpdateEventRequest true "イベント情報"
// @Success 200 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	details, err := req.toDetails()
	if err != nil {
		return err
	}

	e, err := h.eventService.UpdateEvent(c.Request().Context(), application.UpdateEventInput{
		ID:      c.Param("id"),
		ActorID: id.UserID,
		Details: details,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Delete godoc
// @Summary イベントを削除
// @Description 参加者と評価も削除されます（主催者のみ）
// @Tags events
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "イベントID"
// @Success 204
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.eventService.DeleteEvent(c.Request().Context(), c.Param("id"), id.UserID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats godoc
// @Summary イベントの予約・評価状況を取得
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} StatsResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id}/stats [get]
func (h *EventHandler) Stats(c echo.Context) error {
	s, err := h.eventService.GetStats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, StatsResponse{
		EventID:        s.EventID,
		Capacity:       s.Capacity,
		Occupancy:      s.Occupancy,
		AvailableSeats: s.AvailableSeats,
		AverageRating:  s.AverageRating,
		RatingCount:    s.RatingCount,
	})
}
