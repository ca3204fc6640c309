package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/booking"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/user"
)

type participantRow struct {
	EventID  string    `db:"event_id"`
	UserID   string    `db:"user_id"`
	BookedAt time.Time `db:"booked_at"`
}

// ParticipantRepository は参加者リポジトリのPostgreSQL実装
type ParticipantRepository struct{ db *sqlx.DB }

// NewParticipantRepository はParticipantRepositoryを作成する
func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Exists は参加関係が存在するかを確認する
func (r *ParticipantRepository) Exists(ctx context.Context, tx transaction.Tx, eventID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM event_participants WHERE event_id = $1 AND user_id = $2)`
	if err := sqlx.GetContext(ctx, queryer(r.db, tx), &exists, query, eventID, userID); err != nil {
		if isInvalidID(err) {
			return false, nil
		}
		return false, fmt.Errorf("参加状況の確認に失敗: %w", classify(err))
	}
	return exists, nil
}

// Add は参加関係を追加する
func (r *ParticipantRepository) Add(ctx context.Context, tx transaction.Tx, p *booking.Participant) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("Add にはトランザクションが必要です")
	}
	query := `INSERT INTO event_participants (event_id, user_id, booked_at) VALUES ($1, $2, $3)`
	if _, err := sqlxTx.ExecContext(ctx, query, p.EventID, p.UserID, p.BookedAt); err != nil {
		switch {
		case isUniqueViolation(err):
			return booking.ErrAlreadyBooked
		case isForeignKeyViolation(err):
			return user.ErrUserNotFound
		}
		return fmt.Errorf("参加登録に失敗: %w", classify(err))
	}
	return nil
}

// ListByEvent はイベントの参加者一覧を予約順に取得する
func (r *ParticipantRepository) ListByEvent(ctx context.Context, eventID string) ([]*booking.Participant, error) {
	var rows []participantRow
	query := `SELECT event_id, user_id, booked_at FROM event_participants WHERE event_id = $1 ORDER BY booked_at`
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		if isInvalidID(err) {
			return []*booking.Participant{}, nil
		}
		return nil, fmt.Errorf("参加者一覧取得に失敗: %w", err)
	}
	result := make([]*booking.Participant, len(rows))
	for i, row := range rows {
		result[i] = &booking.Participant{EventID: row.EventID, UserID: row.UserID, BookedAt: row.BookedAt}
	}
	return result, nil
}

// CountByEvent はイベントの参加者数を取得する
func (r *ParticipantRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM event_participants WHERE event_id = $1`, eventID); err != nil {
		if isInvalidID(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("参加者数取得に失敗: %w", err)
	}
	return count, nil
}

var _ booking.Repository = (*ParticipantRepository)(nil)
