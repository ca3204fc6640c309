package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/event"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/user"
	redisinfra "github.com/sarali19/Eventful-Event-management-platform/internal/infrastructure/redis"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/logger"
)

const statsCacheTTL = 30 * time.Second

type EventService struct {
	eventRepo event.Repository
	userRepo  user.Repository
	cache     StatsCache
}

func NewEventService(eventRepo event.Repository, userRepo user.Repository, cache StatsCache) *EventService {
	return &EventService{eventRepo: eventRepo, userRepo: userRepo, cache: cache}
}

type CreateEventInput struct {
	OrganizerID string
	Details     event.Details
	Capacity    int
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	if !isValidID(input.OrganizerID) {
		return nil, user.ErrUserNotFound
	}
	organizer, err := s.userRepo.GetByID(ctx, input.OrganizerID)
	if err != nil {
		return nil, err
	}
	if !organizer.IsOrganizer() {
		return nil, event.ErrNotOrganizer
	}

	e := event.NewEvent(input.OrganizerID, input.Details, input.Capacity)
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	logger.FromContext(ctx).Info("イベントを作成しました", logger.EventID(e.ID), zap.Int("capacity", e.Capacity))
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	if !isValidID(id) {
		return nil, event.ErrEventNotFound
	}
	return s.eventRepo.GetByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.eventRepo.List(ctx, limit, offset)
}

// ListByOrganizer は主催者のイベント一覧を取得する
func (s *EventService) ListByOrganizer(ctx context.Context, organizerID string) ([]*event.Event, error) {
	if !isValidID(organizerID) {
		return []*event.Event{}, nil
	}
	return s.eventRepo.ListByOrganizer(ctx, organizerID)
}

// ListBookedByUser はユーザーが予約済みのイベント一覧を取得する
func (s *EventService) ListBookedByUser(ctx context.Context, userID string) ([]*event.Event, error) {
	if !isValidID(userID) {
		return []*event.Event{}, nil
	}
	return s.eventRepo.ListByParticipant(ctx, userID)
}

type UpdateEventInput struct {
	ID      string
	ActorID string
	Details event.Details
}

// UpdateEvent は記述項目を更新する。定員と主催者は変更できない
func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*event.Event, error) {
	e, err := s.GetEvent(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !e.IsOrganizedBy(input.ActorID) {
		return nil, event.ErrNotOrganizer
	}
	if err := e.UpdateDetails(input.Details); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEvent はイベントを削除する。参加者と評価も削除される
func (s *EventService) DeleteEvent(ctx context.Context, id, actorID string) error {
	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if !e.IsOrganizedBy(actorID) {
		return event.ErrNotOrganizer
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateStats(ctx, s.cache, id)
	logger.FromContext(ctx).Info("イベントを削除しました", logger.EventID(id))
	return nil
}

// GetStats はイベントの予約・評価状況を取得する（キャッシュ優先）
func (s *EventService) GetStats(ctx context.Context, id string) (*event.Stats, error) {
	if !isValidID(id) {
		return nil, event.ErrEventNotFound
	}

	if s.cache != nil {
		stats, err := s.cache.Get(ctx, id)
		if err == nil {
			return stats, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.FromContext(ctx).Warn("キャッシュ取得に失敗しました", logger.EventID(id), zap.Error(err))
		}
	}

	// 平均評価と評価件数がずれないよう、同じスナップショットから読む
	stats, err := s.eventRepo.GetStats(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats, statsCacheTTL); err != nil {
			logger.FromContext(ctx).Warn("キャッシュ保存に失敗しました", logger.EventID(id), zap.Error(err))
		}
	}
	return stats, nil
}
