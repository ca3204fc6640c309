package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sarali19/Eventful-Event-management-platform/internal/api"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/event"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/rating"
)

func TestRatingHandler_Rate(t *testing.T) {
	e := NewTestEcho()
	path := "/api/v1/events/" + testEventID + "/rate"

	t.Run("評価できればsuccessを返す", func(t *testing.T) {
		mockService := new(MockRatingService)
		mockService.On("RateEvent", mock.Anything, testEventID, testUserID, 4).
			Return(&rating.Rating{ID: "r1", EventID: testEventID, UserID: testUserID, Score: 4}, nil)

		h := NewRatingHandler(mockService)
		c, rec := newTestContext(e, testRequest{
			method: http.MethodPost, path: path, id: testEventID, body: `{"rating":4}`, identity: member(testUserID),
		})

		require.NoError(t, h.Rate(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("範囲外の評価は400 invalid_score", func(t *testing.T) {
		mockService := new(MockRatingService)
		mockService.On("RateEvent", mock.Anything, testEventID, testUserID, 6).Return(nil, rating.ErrInvalidScore)

		h := NewRatingHandler(mockService)
		c, _ := newTestContext(e, testRequest{
			method: http.MethodPost, path: path, id: testEventID, body: `{"rating":6}`, identity: member(testUserID),
		})

		assertHTTPError(t, h.Rate(c), http.StatusBadRequest, api.KindInvalidScore)
	})

	t.Run("未予約の評価は403 not_participant", func(t *testing.T) {
		mockService := new(MockRatingService)
		mockService.On("RateEvent", mock.Anything, testEventID, testUserID, 3).Return(nil, rating.ErrNotParticipant)

		h := NewRatingHandler(mockService)
		c, _ := newTestContext(e, testRequest{
			method: http.MethodPost, path: path, id: testEventID, body: `{"rating":3}`, identity: member(testUserID),
		})

		assertHTTPError(t, h.Rate(c), http.StatusForbidden, api.KindNotParticipant)
	})

	t.Run("存在しないイベントは404", func(t *testing.T) {
		mockService := new(MockRatingService)
		mockService.On("RateEvent", mock.Anything, "missing", testUserID, 3).Return(nil, event.ErrEventNotFound)

		h := NewRatingHandler(mockService)
		c, _ := newTestContext(e, testRequest{
			method: http.MethodPost, path: "/api/v1/events/missing/rate", id: "missing", body: `{"rating":3}`, identity: member(testUserID),
		})

		assertHTTPError(t, h.Rate(c), http.StatusNotFound, api.KindNotFound)
	})

	t.Run("JSONが壊れていれば400", func(t *testing.T) {
		mockService := new(MockRatingService)
		h := NewRatingHandler(mockService)
		c, _ := newTestContext(e, testRequest{
			method: http.MethodPost, path: path, id: testEventID, body: `{"rating":`, identity: member(testUserID),
		})

		assertHTTPError(t, h.Rate(c), http.StatusBadRequest, api.KindValidation)
		mockService.AssertNotCalled(t, "RateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRatingHandler_List(t *testing.T) {
	e := NewTestEcho()
	now := time.Now()
	rs := []*rating.Rating{{ID: "r1", EventID: testEventID, UserID: testUserID, Score: 5, CreatedAt: now, UpdatedAt: now}}

	t.Run("イベントの評価一覧", func(t *testing.T) {
		mockService := new(MockRatingService)
		mockService.On("ListByEvent", mock.Anything, testEventID).Return(rs, nil)

		h := NewRatingHandler(mockService)
		c, rec := newTestContext(e, testRequest{method: http.MethodGet, path: "/api/v1/event-ratings/event/" + testEventID, id: testEventID})

		require.NoError(t, h.ListByEvent(c))
		var resp []RatingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, 5, resp[0].Rating)
	})

	t.Run("ユーザーの評価一覧", func(t *testing.T) {
		mockService := new(MockRatingService)
		mockService.On("ListByUser", mock.Anything, testUserID).Return(rs, nil)

		h := NewRatingHandler(mockService)
		c, rec := newTestContext(e, testRequest{method: http.MethodGet, path: "/api/v1/event-ratings/user/" + testUserID, id: testUserID})

		require.NoError(t, h.ListByUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})
}
