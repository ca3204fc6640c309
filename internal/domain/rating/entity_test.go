package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScore(t *testing.T) {
	tests := []struct {
		name    string
		score   int
		wantErr bool
	}{
		{name: "下限の1", score: 1, wantErr: false},
		{name: "上限の5", score: 5, wantErr: false},
		{name: "0は不正", score: 0, wantErr: true},
		{name: "6は不正", score: 6, wantErr: true},
		{name: "負数は不正", score: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScore(tt.score)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidScore)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewRating(t *testing.T) {
	t.Run("正常に作成できる", func(t *testing.T) {
		r, err := NewRating("event-1", "user-1", 4)
		require.NoError(t, err)
		assert.Equal(t, "event-1", r.EventID)
		assert.Equal(t, "user-1", r.UserID)
		assert.Equal(t, 4, r.Score)
	})

	t.Run("範囲外の評価はエラー", func(t *testing.T) {
		r, err := NewRating("event-1", "user-1", 7)
		assert.Nil(t, r)
		assert.ErrorIs(t, err, ErrInvalidScore)
	})
}

func TestRating_ChangeScore(t *testing.T) {
	r, err := NewRating("event-1", "user-1", 2)
	require.NoError(t, err)

	require.NoError(t, r.ChangeScore(5))
	assert.Equal(t, 5, r.Score)

	assert.ErrorIs(t, r.ChangeScore(0), ErrInvalidScore)
	assert.Equal(t, 5, r.Score)
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   float64
	}{
		{name: "空の場合は0", scores: nil, want: 0},
		{name: "1件のみ", scores: []int{4}, want: 4},
		{name: "整数にならない平均", scores: []int{5, 4}, want: 4.5},
		{name: "3件", scores: []int{1, 2, 2}, want: 5.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Average(tt.scores), 1e-9)
		})
	}
}
