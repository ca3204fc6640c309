package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() Details {
	return Details{
		Title:       "テストコンサート",
		Description: "素晴らしいコンサート",
		EventDate:   time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
		StartTime:   "18:00",
		EndTime:     "21:00",
		City:        "Tunis",
		Location:    "Théâtre Municipal",
		Category:    CategoryConcert,
		Price:       35,
	}
}

func TestNewEvent(t *testing.T) {
	// Arrange
	details := validDetails()

	// Act
	e := NewEvent("organizer-1", details, 100)

	// Assert
	assert.Equal(t, details, e.Details)
	assert.Equal(t, "organizer-1", e.OrganizerID)
	assert.Equal(t, 100, e.Capacity)
	assert.Equal(t, 0, e.Occupancy)
	assert.Equal(t, 0.0, e.AverageRating)
	assert.Equal(t, 0, e.Version)
	assert.NotZero(t, e.CreatedAt)
	assert.NotZero(t, e.UpdatedAt)
	require.NoError(t, e.Validate())
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(e *Event)
		expectedErr error
	}{
		{name: "有効なイベント", mutate: func(e *Event) {}, expectedErr: nil},
		{name: "タイトルが空", mutate: func(e *Event) { e.Title = "" }, expectedErr: ErrTitleRequired},
		{name: "定員が0", mutate: func(e *Event) { e.Capacity = 0 }, expectedErr: ErrInvalidCapacity},
		{name: "定員が負", mutate: func(e *Event) { e.Capacity = -1 }, expectedErr: ErrInvalidCapacity},
		{name: "参加者数が定員超過", mutate: func(e *Event) { e.Occupancy = 101 }, expectedErr: ErrInvalidOccupancy},
		{name: "主催者が空", mutate: func(e *Event) { e.OrganizerID = "" }, expectedErr: ErrOrganizerRequired},
		{name: "開催日が空", mutate: func(e *Event) { e.EventDate = time.Time{} }, expectedErr: ErrEventDateRequired},
		{name: "都市が空", mutate: func(e *Event) { e.City = "" }, expectedErr: ErrCityRequired},
		{name: "会場が空", mutate: func(e *Event) { e.Location = "" }, expectedErr: ErrLocationRequired},
		{name: "未定義のカテゴリ", mutate: func(e *Event) { e.Category = "PARTY" }, expectedErr: ErrInvalidCategory},
		{name: "価格が負", mutate: func(e *Event) { e.Price = -1 }, expectedErr: ErrInvalidPrice},
		{name: "終了時刻が開始時刻より前", mutate: func(e *Event) { e.EndTime = "17:00" }, expectedErr: ErrInvalidEventTime},
		{name: "終了時刻と開始時刻が同じ", mutate: func(e *Event) { e.EndTime = "18:00" }, expectedErr: ErrInvalidEventTime},
		{name: "時刻の形式が不正", mutate: func(e *Event) { e.StartTime = "6pm" }, expectedErr: ErrInvalidEventTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvent("organizer-1", validDetails(), 100)
			tt.mutate(e)

			err := e.Validate()

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvent_Admit(t *testing.T) {
	t.Run("空席があれば占有数が1増える", func(t *testing.T) {
		e := NewEvent("organizer-1", validDetails(), 2)

		require.NoError(t, e.Admit())
		assert.Equal(t, 1, e.Occupancy)
		assert.Equal(t, 1, e.AvailableSeats())
		assert.True(t, e.HasFreeSeat())
	})

	t.Run("定員に達したら ErrCapacityExceeded で状態は変わらない", func(t *testing.T) {
		e := NewEvent("organizer-1", validDetails(), 1)
		require.NoError(t, e.Admit())

		err := e.Admit()

		assert.ErrorIs(t, err, ErrCapacityExceeded)
		assert.Equal(t, 1, e.Occupancy)
		assert.Equal(t, 0, e.AvailableSeats())
		assert.False(t, e.HasFreeSeat())
	})

	t.Run("Admitは定員を超えない", func(t *testing.T) {
		e := NewEvent("organizer-1", validDetails(), 5)
		admitted := 0
		for i := 0; i < 20; i++ {
			if e.Admit() == nil {
				admitted++
			}
		}
		assert.Equal(t, 5, admitted)
		assert.Equal(t, e.Capacity, e.Occupancy)
	})
}

func TestEvent_UpdateDetails(t *testing.T) {
	t.Run("定員と主催者は変わらない", func(t *testing.T) {
		e := NewEvent("organizer-1", validDetails(), 10)
		require.NoError(t, e.Admit())

		d := validDetails()
		d.Title = "変更後のタイトル"
		d.Category = CategoryTheater

		require.NoError(t, e.UpdateDetails(d))
		assert.Equal(t, "変更後のタイトル", e.Title)
		assert.Equal(t, CategoryTheater, e.Category)
		assert.Equal(t, 10, e.Capacity)
		assert.Equal(t, 1, e.Occupancy)
		assert.Equal(t, "organizer-1", e.OrganizerID)
	})

	t.Run("不正な値では更新しない", func(t *testing.T) {
		e := NewEvent("organizer-1", validDetails(), 10)

		d := validDetails()
		d.Title = ""

		assert.ErrorIs(t, e.UpdateDetails(d), ErrTitleRequired)
		assert.Equal(t, "テストコンサート", e.Title)
	})
}

func TestEvent_SetAverageRating(t *testing.T) {
	e := NewEvent("organizer-1", validDetails(), 10)
	e.SetAverageRating(4.5)
	assert.Equal(t, 4.5, e.AverageRating)
}

func TestEvent_IsOrganizedBy(t *testing.T) {
	e := NewEvent("organizer-1", validDetails(), 10)
	assert.True(t, e.IsOrganizedBy("organizer-1"))
	assert.False(t, e.IsOrganizedBy("member-1"))
}
