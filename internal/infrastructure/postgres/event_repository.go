package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/event"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
)

const eventColumns = `id, title, description, event_date, start_time, end_time, city, location, category,
	price, capacity, occupancy, average_rating, organizer_id, created_at, updated_at, version`

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID            string    `db:"id"`
	Title         string    `db:"title"`
	Description   *string   `db:"description"`
	EventDate     time.Time `db:"event_date"`
	StartTime     string    `db:"start_time"`
	EndTime       string    `db:"end_time"`
	City          string    `db:"city"`
	Location      string    `db:"location"`
	Category      string    `db:"category"`
	Price         float64   `db:"price"`
	Capacity      int       `db:"capacity"`
	Occupancy     int       `db:"occupancy"`
	AverageRating float64   `db:"average_rating"`
	OrganizerID   string    `db:"organizer_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	Version       int       `db:"version"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	var desc string
	if r.Description != nil {
		desc = *r.Description
	}
	return &event.Event{
		ID: r.ID,
		Details: event.Details{
			Title:       r.Title,
			Description: desc,
			EventDate:   r.EventDate,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			City:        r.City,
			Location:    r.Location,
			Category:    event.Category(r.Category),
			Price:       r.Price,
		},
		Capacity:      r.Capacity,
		Occupancy:     r.Occupancy,
		AverageRating: r.AverageRating,
		OrganizerID:   r.OrganizerID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Version:       r.Version,
	}
}

func toEvents(rows []eventRow) []*event.Event {
	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (title, description, event_date, start_time, end_time, city, location, category,
		                    price, capacity, occupancy, average_rating, organizer_id, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		e.Title, nullableString(e.Description), e.EventDate, e.StartTime, e.EndTime, e.City, e.Location, string(e.Category),
		e.Price, e.Capacity, e.Occupancy, e.AverageRating, e.OrganizerID, e.CreatedAt, e.UpdatedAt, e.Version,
	).Scan(&e.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return event.ErrOrganizerRequired
		}
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	return r.get(ctx, r.db, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

// GetByIDForUpdate はトランザクション内でイベント行を排他ロックして取得する
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, errors.New("GetByIDForUpdate にはトランザクションが必要です")
	}
	return r.get(ctx, sqlxTx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id)
}

func (r *EventRepository) get(ctx context.Context, q sqlx.QueryerContext, query, id string) (*event.Event, error) {
	var row eventRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", classify(err))
	}
	return row.toEntity(), nil
}

type statsRow struct {
	eventRow
	RatingCount int `db:"rating_count"`
}

// GetStats はイベント行と評価件数を1つのSQL文で読み、同じスナップショットの集計を返す
func (r *EventRepository) GetStats(ctx context.Context, id string) (*event.Stats, error) {
	query := `
		SELECT ` + eventColumns + `,
		       (SELECT COUNT(*) FROM event_ratings er WHERE er.event_id = events.id) AS rating_count
		FROM events
		WHERE id = $1
	`
	var row statsRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント集計の取得に失敗しました: %w", classify(err))
	}
	return event.StatsOf(row.toEntity(), row.RatingCount), nil
}

// List は開催日の昇順でイベント一覧を取得する
func (r *EventRepository) List(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY event_date ASC, start_time ASC LIMIT $1 OFFSET $2`

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}
	return toEvents(rows), nil
}

// ListIDs は全イベントのIDを取得する
func (r *EventRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM events ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("イベントID一覧取得に失敗しました: %w", err)
	}
	return ids, nil
}

// ListByOrganizer は主催者のイベント一覧を取得する
func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE organizer_id = $1 ORDER BY event_date ASC`

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, organizerID); err != nil {
		if isInvalidID(err) {
			return []*event.Event{}, nil
		}
		return nil, fmt.Errorf("主催イベント一覧取得に失敗しました: %w", err)
	}
	return toEvents(rows), nil
}

// ListByParticipant はユーザーが予約済みのイベント一覧を取得する
func (r *EventRepository) ListByParticipant(ctx context.Context, userID string) ([]*event.Event, error) {
	query := `
		SELECT e.id, e.title, e.description, e.event_date, e.start_time, e.end_time, e.city, e.location, e.category,
		       e.price, e.capacity, e.occupancy, e.average_rating, e.organizer_id, e.created_at, e.updated_at, e.version
		FROM events e
		JOIN event_participants p ON p.event_id = e.id
		WHERE p.user_id = $1
		ORDER BY p.booked_at DESC
	`
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		if isInvalidID(err) {
			return []*event.Event{}, nil
		}
		return nil, fmt.Errorf("予約済みイベント一覧取得に失敗しました: %w", err)
	}
	return toEvents(rows), nil
}

// Update は記述項目を更新する（楽観的ロック）
// 定員・参加者数・平均評価・主催者は更新しない
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, event_date = $3, start_time = $4, end_time = $5,
		    city = $6, location = $7, category = $8, price = $9, updated_at = $10, version = version + 1
		WHERE id = $11 AND version = $12
	`
	result, err := r.db.ExecContext(ctx, query,
		e.Title, nullableString(e.Description), e.EventDate, e.StartTime, e.EndTime,
		e.City, e.Location, string(e.Category), e.Price, time.Now(), e.ID, e.Version,
	)
	if err != nil {
		if isInvalidID(err) {
			return event.ErrEventNotFound
		}
		return fmt.Errorf("イベント更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
		return event.ErrOptimisticLockConflict
	}

	e.Version++
	return nil
}

// UpdateCounters は参加者数と平均評価を保存する
// 呼び出し側は GetByIDForUpdate で行ロックを保持していること
func (r *EventRepository) UpdateCounters(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("UpdateCounters にはトランザクションが必要です")
	}
	query := `UPDATE events SET occupancy = $1, average_rating = $2, updated_at = $3 WHERE id = $4`
	result, err := sqlxTx.ExecContext(ctx, query, e.Occupancy, e.AverageRating, e.UpdatedAt, e.ID)
	if err != nil {
		if isCheckViolation(err) {
			return event.ErrCapacityExceeded
		}
		return fmt.Errorf("イベント集計値の更新に失敗しました: %w", classify(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// Delete はイベントを削除する（参加者・評価は ON DELETE CASCADE で削除される）
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return event.ErrEventNotFound
		}
		return fmt.Errorf("イベント削除に失敗しました: %w", classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
