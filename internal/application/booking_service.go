package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/booking"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/event"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/rating"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/user"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/logger"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/metrics"
)

// BookingService は定員付きのイベント予約を受け付ける
// 同一イベントへの予約はイベント行のロックで直列化され、参加者数が定員を超えることはない
type BookingService struct {
	txManager       transaction.Manager
	eventRepo       event.Repository
	userRepo        user.Repository
	participantRepo booking.Repository
	locker          EventLocker
	cache           StatsCache
	publisher       Publisher
	metrics         *metrics.Metrics
	retry           retryPolicy
}

func NewBookingService(tm transaction.Manager, er event.Repository, ur user.Repository, pr booking.Repository, opts Options) *BookingService {
	return &BookingService{
		txManager:       tm,
		eventRepo:       er,
		userRepo:        ur,
		participantRepo: pr,
		locker:          opts.Locker,
		cache:           opts.Cache,
		publisher:       opts.Publisher,
		metrics:         opts.Metrics,
		retry:           newRetryPolicy(opts),
	}
}

// BookEvent はユーザーをイベントの参加者として登録する
func (s *BookingService) BookEvent(ctx context.Context, eventID, userID string) (*booking.Participant, error) {
	log := logger.FromContext(ctx).With(logger.EventID(eventID), logger.UserID(userID))

	if !isValidID(eventID) {
		s.metrics.ObserveBooking(outcome(event.ErrEventNotFound))
		return nil, event.ErrEventNotFound
	}
	if !isValidID(userID) {
		s.metrics.ObserveBooking(outcome(user.ErrUserNotFound))
		return nil, user.ErrUserNotFound
	}

	if s.locker != nil {
		lock, err := s.locker.LockEvent(ctx, eventID)
		if err != nil {
			s.metrics.ObserveBooking(outcome(err))
			return nil, err
		}
		defer func() {
			if err := lock.Release(ctx); err != nil {
				log.Warn("ロック解放に失敗しました", zap.Error(err))
			}
		}()
	}

	var (
		participant *booking.Participant
		booked      *event.Event
	)
	err := s.retry.run(ctx, "book", func(ctx context.Context) error {
		return withTx(ctx, s.txManager, func(tx transaction.Tx) error {
			ev, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if _, err := s.userRepo.GetByIDTx(ctx, tx, userID); err != nil {
				return err
			}

			exists, err := s.participantRepo.Exists(ctx, tx, eventID, userID)
			if err != nil {
				return err
			}
			if exists {
				return booking.ErrAlreadyBooked
			}

			if err := ev.Admit(); err != nil {
				return err
			}

			p := booking.NewParticipant(eventID, userID)
			if err := s.participantRepo.Add(ctx, tx, p); err != nil {
				return err
			}
			if err := s.eventRepo.UpdateCounters(ctx, tx, ev); err != nil {
				return err
			}

			participant, booked = p, ev
			return nil
		})
	})
	s.metrics.ObserveBooking(outcome(err))
	if err != nil {
		if isRejection(err) {
			log.Info("予約を受け付けませんでした", zap.Error(err))
			return nil, err
		}
		return nil, fmt.Errorf("予約に失敗: %w", err)
	}

	log.Info("予約しました", zap.Int("occupancy", booked.Occupancy), zap.Int("capacity", booked.Capacity))
	invalidateStats(ctx, s.cache, eventID)
	notify(ctx, s.publisher, RoutingKeyEventBooked, EventBookedMessage{
		EventID:   eventID,
		UserID:    userID,
		Occupancy: booked.Occupancy,
		Capacity:  booked.Capacity,
		BookedAt:  participant.BookedAt,
	})
	return participant, nil
}

// ListParticipants はイベントの参加者一覧を取得する
func (s *BookingService) ListParticipants(ctx context.Context, eventID string) ([]*booking.Participant, error) {
	if !isValidID(eventID) {
		return nil, event.ErrEventNotFound
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.participantRepo.ListByEvent(ctx, eventID)
}

// isRejection は業務上の拒否（呼び出し側の入力や状態に起因するエラー）かを返す
func isRejection(err error) bool {
	return outcome(err) != "error"
}

// outcome はエラーをメトリクス用のラベルに変換する
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, event.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, booking.ErrAlreadyBooked):
		return "already_booked"
	case errors.Is(err, event.ErrEventNotFound), errors.Is(err, user.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, rating.ErrInvalidScore):
		return "invalid_score"
	case errors.Is(err, rating.ErrNotParticipant):
		return "not_participant"
	case errors.Is(err, transaction.ErrTransient):
		return "transient"
	}
	return "error"
}
