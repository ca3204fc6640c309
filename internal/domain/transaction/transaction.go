package transaction

import (
	"context"
	"errors"
)

// トランザクション関連のエラー定義
var (
	// ErrConflict はロック待ちタイムアウト・デッドロック・直列化失敗など、再試行で解消しうる競合を表す
	ErrConflict = errors.New("トランザクションが競合しました")
	// ErrTransient は再試行上限に達しても競合が解消しなかったことを表す
	ErrTransient = errors.New("一時的に処理できません。再試行してください")
)

// Tx はトランザクションを表すインターフェース
// ドメイン層がインフラ層（sqlx等）に依存しないようにするための抽象化
type Tx interface {
	// Commit はトランザクションをコミットする
	Commit() error
	// Rollback はトランザクションをロールバックする
	Rollback() error
}

// Manager はトランザクションを管理するインターフェース
type Manager interface {
	// Begin は新しいトランザクションを開始する
	Begin(ctx context.Context) (Tx, error)
}
