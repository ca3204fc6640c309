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

// RatingService はイベント評価の登録と平均評価の集計を行う
// 平均評価は常に現在の全評価値から再計算し、評価の保存と同じトランザクションで書き込む
type RatingService struct {
	txManager       transaction.Manager
	eventRepo       event.Repository
	userRepo        user.Repository
	participantRepo booking.Repository
	ratingRepo      rating.Repository
	locker          EventLocker
	cache           StatsCache
	publisher       Publisher
	metrics         *metrics.Metrics
	retry           retryPolicy
	requireBooking  bool
}

func NewRatingService(tm transaction.Manager, er event.Repository, ur user.Repository, pr booking.Repository, rr rating.Repository, opts Options) *RatingService {
	return &RatingService{
		txManager:       tm,
		eventRepo:       er,
		userRepo:        ur,
		participantRepo: pr,
		ratingRepo:      rr,
		locker:          opts.Locker,
		cache:           opts.Cache,
		publisher:       opts.Publisher,
		metrics:         opts.Metrics,
		retry:           newRetryPolicy(opts),
		requireBooking:  opts.RequireBookingToRate,
	}
}

// RateEvent はユーザーの評価を登録または上書きし、イベントの平均評価を更新する
func (s *RatingService) RateEvent(ctx context.Context, eventID, userID string, score int) (*rating.Rating, error) {
	log := logger.FromContext(ctx).With(logger.EventID(eventID), logger.UserID(userID))

	// ストアに触れる前に検証する
	if err := rating.ValidateScore(score); err != nil {
		s.metrics.ObserveRating(outcome(err))
		return nil, err
	}
	if !isValidID(eventID) {
		s.metrics.ObserveRating(outcome(event.ErrEventNotFound))
		return nil, event.ErrEventNotFound
	}
	if !isValidID(userID) {
		s.metrics.ObserveRating(outcome(user.ErrUserNotFound))
		return nil, user.ErrUserNotFound
	}

	if s.locker != nil {
		lock, err := s.locker.LockEvent(ctx, eventID)
		if err != nil {
			s.metrics.ObserveRating(outcome(err))
			return nil, err
		}
		defer func() {
			if err := lock.Release(ctx); err != nil {
				log.Warn("ロック解放に失敗しました", zap.Error(err))
			}
		}()
	}

	var (
		saved   *rating.Rating
		rated   *event.Event
		created bool
	)
	err := s.retry.run(ctx, "rate", func(ctx context.Context) error {
		return withTx(ctx, s.txManager, func(tx transaction.Tx) error {
			ev, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if _, err := s.userRepo.GetByIDTx(ctx, tx, userID); err != nil {
				return err
			}

			if s.requireBooking {
				booked, err := s.participantRepo.Exists(ctx, tx, eventID, userID)
				if err != nil {
					return err
				}
				if !booked {
					return rating.ErrNotParticipant
				}
			}

			r, err := s.ratingRepo.FindByUserAndEvent(ctx, tx, userID, eventID)
			switch {
			case err == nil:
				if err := r.ChangeScore(score); err != nil {
					return err
				}
			case errors.Is(err, rating.ErrRatingNotFound):
				if r, err = rating.NewRating(eventID, userID, score); err != nil {
					return err
				}
			default:
				return err
			}

			isNew, err := s.ratingRepo.Upsert(ctx, tx, r)
			if err != nil {
				return err
			}
			if err := s.applyAverage(ctx, tx, ev); err != nil {
				return err
			}

			saved, rated, created = r, ev, isNew
			return nil
		})
	})
	if err != nil {
		s.metrics.ObserveRating(outcome(err))
		if isRejection(err) {
			log.Info("評価を受け付けませんでした", zap.Error(err))
			return nil, err
		}
		return nil, fmt.Errorf("評価に失敗: %w", err)
	}

	if created {
		s.metrics.ObserveRating("created")
	} else {
		s.metrics.ObserveRating("updated")
	}
	log.Info("評価しました",
		zap.Int("score", score),
		zap.Bool("created", created),
		zap.Float64("average_rating", rated.AverageRating),
	)
	invalidateStats(ctx, s.cache, eventID)
	notify(ctx, s.publisher, RoutingKeyEventRated, EventRatedMessage{
		EventID:       eventID,
		UserID:        userID,
		Score:         saved.Score,
		AverageRating: rated.AverageRating,
		RatedAt:       saved.UpdatedAt,
	})
	return saved, nil
}

// applyAverage はロック中のイベントの平均評価を全評価値から再計算して保存する
// 値が変わらない場合は行を書き換えない
func (s *RatingService) applyAverage(ctx context.Context, tx transaction.Tx, ev *event.Event) error {
	scores, err := s.ratingRepo.ListScoresByEvent(ctx, tx, ev.ID)
	if err != nil {
		return err
	}
	avg := rating.Average(scores)
	if avg == ev.AverageRating {
		return nil
	}
	ev.SetAverageRating(avg)
	return s.eventRepo.UpdateCounters(ctx, tx, ev)
}

// RecomputeAverage はイベントの平均評価を再計算する
// 何度実行しても結果は変わらない
func (s *RatingService) RecomputeAverage(ctx context.Context, eventID string) (float64, error) {
	if !isValidID(eventID) {
		return 0, event.ErrEventNotFound
	}

	var avg float64
	err := s.retry.run(ctx, "recompute", func(ctx context.Context) error {
		return withTx(ctx, s.txManager, func(tx transaction.Tx) error {
			ev, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
			if err != nil {
				return err
			}
			before := ev.AverageRating
			if err := s.applyAverage(ctx, tx, ev); err != nil {
				return err
			}
			if ev.AverageRating != before {
				logger.FromContext(ctx).Info("平均評価を補正しました",
					logger.EventID(eventID),
					zap.Float64("before", before),
					zap.Float64("after", ev.AverageRating),
				)
			}
			avg = ev.AverageRating
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	invalidateStats(ctx, s.cache, eventID)
	return avg, nil
}

// RecomputeAllAverages は全イベントの平均評価を再計算し、成功した件数を返す
// 個別のイベントで失敗しても残りの処理は継続する
func (s *RatingService) RecomputeAllAverages(ctx context.Context) (int, error) {
	ids, err := s.eventRepo.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("イベントID一覧取得に失敗: %w", err)
	}

	count := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return count, ctx.Err()
		}
		if _, err := s.RecomputeAverage(ctx, id); err != nil {
			// 再計算中に削除されたイベントは対象外
			if !errors.Is(err, event.ErrEventNotFound) {
				logger.FromContext(ctx).Error("平均評価の再計算に失敗しました", logger.EventID(id), zap.Error(err))
			}
			continue
		}
		count++
	}
	return count, nil
}

// ListByEvent はイベントの評価一覧を取得する
func (s *RatingService) ListByEvent(ctx context.Context, eventID string) ([]*rating.Rating, error) {
	if !isValidID(eventID) {
		return nil, event.ErrEventNotFound
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.ratingRepo.ListByEvent(ctx, eventID)
}

// ListByUser はユーザーの評価一覧を取得する
func (s *RatingService) ListByUser(ctx context.Context, userID string) ([]*rating.Rating, error) {
	if !isValidID(userID) {
		return nil, user.ErrUserNotFound
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.ratingRepo.ListByUser(ctx, userID)
}
