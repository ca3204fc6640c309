package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/event"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// EventStatsCache はイベントの予約・評価集計のキャッシュを管理する
// 予約・評価のコミット後に無効化される
type EventStatsCache struct {
	client *redis.Client
}

// NewEventStatsCache は新しいEventStatsCacheインスタンスを作成する
func NewEventStatsCache(client *redis.Client) *EventStatsCache {
	return &EventStatsCache{client: client}
}

// Get はイベントの集計をキャッシュから取得する
func (c *EventStatsCache) Get(ctx context.Context, eventID string) (*event.Stats, error) {
	vals, err := c.client.HGetAll(ctx, c.statsKey(eventID)).Result()
	if err != nil {
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	if len(vals) == 0 {
		return nil, ErrCacheMiss
	}

	stats := &event.Stats{EventID: eventID}
	for field, dst := range map[string]*int{
		"capacity":        &stats.Capacity,
		"occupancy":       &stats.Occupancy,
		"available_seats": &stats.AvailableSeats,
		"rating_count":    &stats.RatingCount,
	} {
		n, err := strconv.Atoi(vals[field])
		if err != nil {
			return nil, ErrCacheMiss
		}
		*dst = n
	}
	avg, err := strconv.ParseFloat(vals["average_rating"], 64)
	if err != nil {
		return nil, ErrCacheMiss
	}
	stats.AverageRating = avg
	return stats, nil
}

// Set はイベントの集計をキャッシュに保存する
func (c *EventStatsCache) Set(ctx context.Context, stats *event.Stats, ttl time.Duration) error {
	key := c.statsKey(stats.EventID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"capacity", stats.Capacity,
			"occupancy", stats.Occupancy,
			"available_seats", stats.AvailableSeats,
			"average_rating", strconv.FormatFloat(stats.AverageRating, 'f', -1, 64),
			"rating_count", stats.RatingCount,
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はイベントのキャッシュを無効化する
func (c *EventStatsCache) Invalidate(ctx context.Context, eventID string) error {
	if err := c.client.Del(ctx, c.statsKey(eventID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *EventStatsCache) statsKey(eventID string) string {
	return fmt.Sprintf("event:stats:%s", eventID)
}
