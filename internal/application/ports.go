package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/event"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
	redislock "github.com/sarali19/Eventful-Event-management-platform/internal/infrastructure/redis"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/metrics"
)

// StatsCache はイベント集計のキャッシュ
type StatsCache interface {
	Get(ctx context.Context, eventID string) (*event.Stats, error)
	Set(ctx context.Context, stats *event.Stats, ttl time.Duration) error
	Invalidate(ctx context.Context, eventID string) error
}

// Unlocker は取得済みロックの解放
type Unlocker interface {
	Release(ctx context.Context) error
}

// EventLocker はイベント単位の前段ロック
// 取得できない場合は transaction.ErrTransient を返す
type EventLocker interface {
	LockEvent(ctx context.Context, eventID string) (Unlocker, error)
}

// Options は予約・評価サービスの任意設定
// nil のフィールドは無効として扱う
type Options struct {
	Locker       EventLocker
	Cache        StatsCache
	Publisher    Publisher
	Metrics      *metrics.Metrics
	MaxAttempts  int
	RetryBackoff time.Duration
	// RequireBookingToRate が true の場合、予約済みのユーザーのみ評価できる
	RequireBookingToRate bool
}

const (
	eventLockRetryDelay = 25 * time.Millisecond
	minEventLockTTL     = 10 * time.Second
)

// redisEventLocker は Redis の LockManager を EventLocker として使う
type redisEventLocker struct {
	lm         *redislock.LockManager
	ttl        time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewRedisEventLocker は Redis 分散ロックによる EventLocker を作成する
// wait は前段ロックを待つ上限。DB側で待ちうる時間（LockWaitBudget）より短いと、
// DBなら受け付けられた要求が一時的エラーになる
func NewRedisEventLocker(lm *redislock.LockManager, wait time.Duration) EventLocker {
	retries := int((wait + eventLockRetryDelay - 1) / eventLockRetryDelay)
	if retries < 1 {
		retries = 1
	}
	// 保持者の処理中に期限切れにならないよう、待ち時間より長く保持する
	ttl := 2 * wait
	if ttl < minEventLockTTL {
		ttl = minEventLockTTL
	}
	return &redisEventLocker{
		lm:         lm,
		ttl:        ttl,
		maxRetries: retries,
		retryDelay: eventLockRetryDelay,
	}
}

// LockWaitBudget は1件の予約・評価がDBのロック待ちに費やしうる時間の上限を返す
// lock_timeout を再試行回数分と、その間のバックオフを合計したもの
func LockWaitBudget(lockTimeout time.Duration, opts Options) time.Duration {
	p := newRetryPolicy(opts)
	budget := lockTimeout * time.Duration(p.maxAttempts)
	for attempt := 1; attempt < p.maxAttempts; attempt++ {
		budget += p.backoff * time.Duration(attempt)
	}
	return budget
}

func (l *redisEventLocker) LockEvent(ctx context.Context, eventID string) (Unlocker, error) {
	lock, err := l.lm.AcquireLockWithRetry(ctx, redislock.EventLockKey(eventID), l.ttl, l.maxRetries, l.retryDelay)
	if err != nil {
		if errors.Is(err, redislock.ErrLockNotAcquired) {
			return nil, fmt.Errorf("%w: イベントが他のリクエストによって処理中です", transaction.ErrTransient)
		}
		return nil, fmt.Errorf("%w: ロック取得に失敗: %v", transaction.ErrTransient, err)
	}
	return lock, nil
}
