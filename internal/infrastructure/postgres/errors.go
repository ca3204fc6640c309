package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
)

// PostgreSQL のエラーコード
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeInvalidTextRepr      = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool     { return pqCode(err) == codeUniqueViolation }
func isForeignKeyViolation(err error) bool { return pqCode(err) == codeForeignKeyViolation }
func isCheckViolation(err error) bool      { return pqCode(err) == codeCheckViolation }

// isInvalidID はUUID形式でない値で検索したときのエラーかを返す
func isInvalidID(err error) bool { return pqCode(err) == codeInvalidTextRepr }

// classify はロック待ちタイムアウト・デッドロック・直列化失敗を transaction.ErrConflict として包む
func classify(err error) error {
	switch pqCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%w: %v", transaction.ErrConflict, err)
	}
	return err
}
