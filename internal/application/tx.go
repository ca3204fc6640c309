package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/logger"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/metrics"
)

const (
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 50 * time.Millisecond
)

// withTx は fn を1つのトランザクション内で実行する
// fn がエラーを返すかパニックした場合はロールバックし、書き込みもロックも残らない
func withTx(ctx context.Context, m transaction.Manager, fn func(tx transaction.Tx) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

// retryPolicy は競合で中断したトランザクションの再試行方針
type retryPolicy struct {
	maxAttempts int
	backoff     time.Duration
	metrics     *metrics.Metrics
}

func newRetryPolicy(opts Options) retryPolicy {
	p := retryPolicy{maxAttempts: opts.MaxAttempts, backoff: opts.RetryBackoff, metrics: opts.Metrics}
	if p.maxAttempts <= 0 {
		p.maxAttempts = defaultMaxAttempts
	}
	if p.backoff < 0 {
		p.backoff = defaultRetryBackoff
	}
	return p
}

// run は transaction.ErrConflict の間だけ fn を再試行する
// 業務上の拒否は再試行しない。上限に達したら transaction.ErrTransient を返す
func (p retryPolicy) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil || !errors.Is(err, transaction.ErrConflict) {
			return err
		}
		if attempt >= p.maxAttempts {
			logger.FromContext(ctx).Warn("再試行の上限に達しました",
				zap.String("operation", op),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return fmt.Errorf("%w: %v", transaction.ErrTransient, err)
		}
		p.metrics.ObserveRetry(op)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(attempt)):
		}
	}
}

// isValidID はIDがUUID形式かを返す
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
