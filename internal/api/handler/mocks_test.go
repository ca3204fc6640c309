package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sarali19/Eventful-Event-management-platform/internal/api"
	"github.com/sarali19/Eventful-Event-management-platform/internal/api/middleware"
	"github.com/sarali19/Eventful-Event-management-platform/internal/application"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/booking"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/event"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/rating"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/user"
)

const (
	testEventID     = "11111111-1111-4111-8111-111111111111"
	testUserID      = "22222222-2222-4222-8222-222222222222"
	testOrganizerID = "33333333-3333-4333-8333-333333333333"
)

// MockEventService はEventServiceInterfaceのモック
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) ListByOrganizer(ctx context.Context, organizerID string) ([]*event.Event, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) ListBookedByUser(ctx context.Context, userID string) ([]*event.Event, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, id, actorID string) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}

func (m *MockEventService) GetStats(ctx context.Context, id string) (*event.Stats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Stats), args.Error(1)
}

// MockBookingService はBookingServiceInterfaceのモック
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) BookEvent(ctx context.Context, eventID, userID string) (*booking.Participant, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Participant), args.Error(1)
}

func (m *MockBookingService) ListParticipants(ctx context.Context, eventID string) ([]*booking.Participant, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Participant), args.Error(1)
}

// MockRatingService はRatingServiceInterfaceのモック
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) RateEvent(ctx context.Context, eventID, userID string, score int) (*rating.Rating, error) {
	args := m.Called(ctx, eventID, userID, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rating.Rating), args.Error(1)
}

func (m *MockRatingService) ListByEvent(ctx context.Context, eventID string) ([]*rating.Rating, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rating.Rating), args.Error(1)
}

func (m *MockRatingService) ListByUser(ctx context.Context, userID string) ([]*rating.Rating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rating.Rating), args.Error(1)
}

// MockUserService はUserServiceInterfaceのモック
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input application.RegisterInput) (*user.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// testRequest はハンドラー単体テスト用のリクエスト
type testRequest struct {
	method   string
	path     string
	body     string
	id       string
	identity *middleware.Identity
}

func newTestContext(e *echo.Echo, r testRequest) (echo.Context, *httptest.ResponseRecorder) {
	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if r.id != "" {
		c.SetParamNames("id")
		c.SetParamValues(r.id)
	}
	if r.identity != nil {
		middleware.SetIdentity(c, *r.identity)
	}
	return c, rec
}

func member(id string) *middleware.Identity {
	return &middleware.Identity{UserID: id, Role: user.RoleMember}
}

func organizer(id string) *middleware.Identity {
	return &middleware.Identity{UserID: id, Role: user.RoleOrganizer}
}

// assertHTTPError はステータスと種別を検証する
func assertHTTPError(t *testing.T, err error, status int, kind string) {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "HTTPErrorではありません: %v", err)
	assert.Equal(t, status, he.Code)
	resp, ok := he.Message.(api.ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, kind, resp.Kind)
}

func newTestEvent() *event.Event {
	now := time.Now()
	return &event.Event{
		ID: testEventID,
		Details: event.Details{
			Title:     "サマージャズナイト",
			EventDate: time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
			StartTime: "18:00",
			EndTime:   "21:00",
			City:      "東京",
			Location:  "日比谷野外音楽堂",
			Category:  event.CategoryConcert,
			Price:     4500,
		},
		Capacity:      300,
		Occupancy:     120,
		AverageRating: 4.5,
		OrganizerID:   testOrganizerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
