package user

import (
	"context"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
)

// Repository はユーザーリポジトリのインターフェース
type Repository interface {
	// Create は新しいユーザーを作成する
	Create(ctx context.Context, user *User) error

	// GetByID はIDからユーザーを取得する
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByIDTx はトランザクション内でユーザーを取得する
	GetByIDTx(ctx context.Context, tx transaction.Tx, id string) (*User, error)

	// GetByEmail はメールアドレスからユーザーを取得する
	GetByEmail(ctx context.Context, email string) (*User, error)
}
