package event

import (
	"context"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
)

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成する
	Create(ctx context.Context, event *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// GetByIDForUpdate はトランザクション内でイベント行をロックして取得する
	// 同じイベントへの予約・評価はこのロックで直列化される
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Event, error)

	// List は開催日の昇順でイベント一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Event, error)

	// GetStats はイベントの占有数・平均評価と評価件数を1回の読み取りで取得する
	GetStats(ctx context.Context, id string) (*Stats, error)

	// ListIDs は全イベントのIDを取得する
	ListIDs(ctx context.Context) ([]string, error)

	// ListByOrganizer は主催者のイベント一覧を取得する
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Event, error)

	// ListByParticipant はユーザーが予約済みのイベント一覧を取得する
	ListByParticipant(ctx context.Context, userID string) ([]*Event, error)

	// Update は記述項目を更新する（楽観的ロック）
	Update(ctx context.Context, event *Event) error

	// UpdateCounters は占有数と平均評価を保存する（トランザクション必須）
	UpdateCounters(ctx context.Context, tx transaction.Tx, event *Event) error

	// Delete はイベントを削除する（評価・参加者は連鎖削除）
	Delete(ctx context.Context, id string) error
}
