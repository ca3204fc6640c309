package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/rating"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
)

const ratingColumns = `id, event_id, user_id, score, created_at, updated_at`

type ratingRow struct {
	ID        string    `db:"id"`
	EventID   string    `db:"event_id"`
	UserID    string    `db:"user_id"`
	Score     int       `db:"score"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *ratingRow) toEntity() *rating.Rating {
	return &rating.Rating{
		ID: r.ID, EventID: r.EventID, UserID: r.UserID, Score: r.Score,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toRatings(rows []ratingRow) []*rating.Rating {
	result := make([]*rating.Rating, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}

// RatingRepository は評価リポジトリのPostgreSQL実装
type RatingRepository struct{ db *sqlx.DB }

// NewRatingRepository はRatingRepositoryを作成する
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// FindByUserAndEvent はユーザーとイベントの組から評価を取得する
func (r *RatingRepository) FindByUserAndEvent(ctx context.Context, tx transaction.Tx, userID, eventID string) (*rating.Rating, error) {
	var row ratingRow
	query := `SELECT ` + ratingColumns + ` FROM event_ratings WHERE user_id = $1 AND event_id = $2`
	if err := sqlx.GetContext(ctx, queryer(r.db, tx), &row, query, userID, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, rating.ErrRatingNotFound
		}
		return nil, fmt.Errorf("評価取得に失敗: %w", classify(err))
	}
	return row.toEntity(), nil
}

// Upsert は評価を作成、または (user_id, event_id) が既存なら評価値を上書きする
func (r *RatingRepository) Upsert(ctx context.Context, tx transaction.Tx, rt *rating.Rating) (bool, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return false, errors.New("Upsert にはトランザクションが必要です")
	}
	// xmax = 0 は INSERT された行であることを示す
	query := `
		INSERT INTO event_ratings (event_id, user_id, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, event_id) DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0) AS inserted
	`
	var created bool
	err := sqlxTx.QueryRowContext(ctx, query, rt.EventID, rt.UserID, rt.Score, rt.CreatedAt, rt.UpdatedAt).
		Scan(&rt.ID, &rt.CreatedAt, &created)
	if err != nil {
		if isCheckViolation(err) {
			return false, rating.ErrInvalidScore
		}
		return false, fmt.Errorf("評価の保存に失敗: %w", classify(err))
	}
	return created, nil
}

// ListScoresByEvent はイベントの全評価値を取得する
func (r *RatingRepository) ListScoresByEvent(ctx context.Context, tx transaction.Tx, eventID string) ([]int, error) {
	var scores []int
	if err := sqlx.SelectContext(ctx, queryer(r.db, tx), &scores, `SELECT score FROM event_ratings WHERE event_id = $1`, eventID); err != nil {
		return nil, fmt.Errorf("評価値一覧取得に失敗: %w", classify(err))
	}
	return scores, nil
}

// ListByEvent はイベントの評価一覧を取得する
func (r *RatingRepository) ListByEvent(ctx context.Context, eventID string) ([]*rating.Rating, error) {
	var rows []ratingRow
	query := `SELECT ` + ratingColumns + ` FROM event_ratings WHERE event_id = $1 ORDER BY updated_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		if isInvalidID(err) {
			return []*rating.Rating{}, nil
		}
		return nil, fmt.Errorf("イベント評価一覧取得に失敗: %w", err)
	}
	return toRatings(rows), nil
}

// ListByUser はユーザーの評価一覧を取得する
func (r *RatingRepository) ListByUser(ctx context.Context, userID string) ([]*rating.Rating, error) {
	var rows []ratingRow
	query := `SELECT ` + ratingColumns + ` FROM event_ratings WHERE user_id = $1 ORDER BY updated_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		if isInvalidID(err) {
			return []*rating.Rating{}, nil
		}
		return nil, fmt.Errorf("ユーザー評価一覧取得に失敗: %w", err)
	}
	return toRatings(rows), nil
}

var _ rating.Repository = (*RatingRepository)(nil)
