package rating

import (
	"time"
)

const (
	// MinScore は評価の最小値
	MinScore = 1
	// MaxScore は評価の最大値
	MaxScore = 5
)

// Rating はユーザーによるイベント評価を表す
// (UserID, EventID) の組につき最大1件
type Rating struct {
	ID        string
	EventID   string
	UserID    string
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRating は新しい評価を作成する
func NewRating(eventID, userID string, score int) (*Rating, error) {
	if err := ValidateScore(score); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Rating{
		EventID:   eventID,
		UserID:    userID,
		Score:     score,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateScore は評価値が 1〜5 の範囲かを検証する
func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return ErrInvalidScore
	}
	return nil
}

// ChangeScore は評価値を上書きする
func (r *Rating) ChangeScore(score int) error {
	if err := ValidateScore(score); err != nil {
		return err
	}
	r.Score = score
	r.UpdatedAt = time.Now()
	return nil
}

// Average は評価値の算術平均を返す。空の場合は 0
func Average(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}
