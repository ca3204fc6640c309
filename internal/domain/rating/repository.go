package rating

import (
	"context"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
)

// Repository は評価リポジトリのインターフェース
type Repository interface {
	// FindByUserAndEvent はユーザーとイベントの組から評価を取得する
	FindByUserAndEvent(ctx context.Context, tx transaction.Tx, userID, eventID string) (*Rating, error)

	// Upsert は評価を作成、または既存の評価を上書きする
	// 作成した場合は created=true を返す
	Upsert(ctx context.Context, tx transaction.Tx, r *Rating) (created bool, err error)

	// ListScoresByEvent はトランザクション内でイベントの全評価値を取得する
	ListScoresByEvent(ctx context.Context, tx transaction.Tx, eventID string) ([]int, error)

	// ListByEvent はイベントの評価一覧を取得する
	ListByEvent(ctx context.Context, eventID string) ([]*Rating, error)

	// ListByUser はユーザーの評価一覧を取得する
	ListByUser(ctx context.Context, userID string) ([]*Rating, error)
}
