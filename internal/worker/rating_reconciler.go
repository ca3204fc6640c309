package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	redisinfra "github.com/sarali19/Eventful-Event-management-platform/internal/infrastructure/redis"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/logger"
)

// reconcileLockKey は複数インスタンスのうち1つだけが再計算するためのロックキー
const reconcileLockKey = "worker:rating-reconciler"

// AverageRecomputer は全イベントの平均評価を再計算するインターフェース
type AverageRecomputer interface {
	RecomputeAllAverages(ctx context.Context) (int, error)
}

// RunLock は取得済みの実行権
type RunLock interface {
	Release(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) error
}

// RunLocker は実行権のロックを取得する
type RunLocker interface {
	AcquireRunLock(ctx context.Context, key string, ttl time.Duration) (RunLock, error)
}

type redisRunLocker struct {
	lm *redisinfra.LockManager
}

// NewRedisRunLocker は Redis の LockManager を RunLocker として使う
func NewRedisRunLocker(lm *redisinfra.LockManager) RunLocker {
	return redisRunLocker{lm: lm}
}

func (l redisRunLocker) AcquireRunLock(ctx context.Context, key string, ttl time.Duration) (RunLock, error) {
	lock, err := l.lm.AcquireLock(ctx, key, ttl)
	if err != nil {
		return nil, err
	}
	return lock, nil
}

// RatingReconciler は平均評価を定期的に全評価値から再計算するワーカー
// 再計算は冪等なので、取りこぼしや手動修正があっても次の周期で整合する
type RatingReconciler struct {
	ratingService AverageRecomputer
	locker        RunLocker
	interval      time.Duration
	stopCh        chan struct{}
	doneCh        chan struct{}
}

// NewRatingReconciler は新しいワーカーを作成する
// locker が nil の場合はロックを取らずに毎周期実行する
func NewRatingReconciler(rs AverageRecomputer, locker RunLocker, interval time.Duration) *RatingReconciler {
	return &RatingReconciler{
		ratingService: rs,
		locker:        locker,
		interval:      interval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start はワーカーを開始する（Stop かコンテキストのキャンセルまでブロックする）
func (r *RatingReconciler) Start(ctx context.Context) {
	logger.Info("平均評価リコンサイラー開始", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("平均評価リコンサイラー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("平均評価リコンサイラー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// Stop はワーカーを停止し、実行中の周期が終わるまで待つ
func (r *RatingReconciler) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

func (r *RatingReconciler) reconcile(ctx context.Context) {
	log := logger.With(zap.String("worker", "rating-reconciler"))

	if r.locker != nil {
		lock, err := r.locker.AcquireRunLock(ctx, reconcileLockKey, r.interval)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				log.Debug("他のインスタンスが再計算中のためスキップ")
			} else {
				log.Warn("リコンサイラーのロック取得に失敗", zap.Error(err))
			}
			return
		}
		stopKeepAlive := r.keepAlive(ctx, lock, log)
		defer func() {
			stopKeepAlive()
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn("リコンサイラーのロック解放に失敗", zap.Error(err))
			}
		}()
	}

	log.Debug("平均評価の再計算開始")
	start := time.Now()
	count, err := r.ratingService.RecomputeAllAverages(ctx)
	if err != nil {
		log.Error("平均評価の再計算に失敗", zap.Int("count", count), zap.Error(err))
		return
	}
	log.Info("平均評価を再計算",
		zap.Int("count", count),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// keepAlive は再計算が周期より長引いても実行権を失わないよう、周期の半分ごとにロックを延長する
// 返り値の関数で延長を止め、ゴルーチンの終了を待つ
func (r *RatingReconciler) keepAlive(ctx context.Context, lock RunLock, log *zap.Logger) func() {
	every := r.interval / 2
	if every <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := lock.Extend(ctx, r.interval); err != nil {
					log.Warn("リコンサイラーのロック延長に失敗", zap.Error(err))
					return
				}
			}
		}
	}()
	return func() {
		close(done)
		<-stopped
	}
}
