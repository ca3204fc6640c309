package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/logger"
)

// ルーティングキー
const (
	RoutingKeyEventBooked = "event.booked"
	RoutingKeyEventRated  = "event.rated"
)

// Publisher はコミット後のドメインイベントを外部へ通知する
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// EventBookedMessage は予約確定の通知
type EventBookedMessage struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Occupancy int       `json:"occupancy"`
	Capacity  int       `json:"capacity"`
	BookedAt  time.Time `json:"booked_at"`
}

// EventRatedMessage は評価登録の通知
type EventRatedMessage struct {
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	Score         int       `json:"score"`
	AverageRating float64   `json:"average_rating"`
	RatedAt       time.Time `json:"rated_at"`
}

// notify は通知を発行する。失敗はログに残すだけで呼び出し元には返さない
func notify(ctx context.Context, p Publisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, payload); err != nil {
		logger.FromContext(ctx).Warn("通知の発行に失敗しました",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}

// invalidateStats は集計キャッシュを無効化する。失敗はログに残すだけ
func invalidateStats(ctx context.Context, c StatsCache, eventID string) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx, eventID); err != nil {
		logger.FromContext(ctx).Warn("キャッシュの無効化に失敗しました", logger.EventID(eventID), zap.Error(err))
	}
}
