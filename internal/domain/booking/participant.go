package booking

import (
	"context"
	"errors"
	"time"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
)

// ErrAlreadyBooked はユーザーが既にイベントを予約済みであることを表す
var ErrAlreadyBooked = errors.New("既にこのイベントを予約しています")

// Participant はイベントとユーザーの参加関係を表す
// (EventID, UserID) の組は一意
type Participant struct {
	EventID  string
	UserID   string
	BookedAt time.Time
}

// NewParticipant は新しい参加関係を作成する
func NewParticipant(eventID, userID string) *Participant {
	return &Participant{
		EventID:  eventID,
		UserID:   userID,
		BookedAt: time.Now(),
	}
}

// Repository は参加者リポジトリのインターフェース
type Repository interface {
	// Exists は参加関係が存在するかをトランザクション内で確認する
	Exists(ctx context.Context, tx transaction.Tx, eventID, userID string) (bool, error)

	// Add は参加関係を追加する（重複時は ErrAlreadyBooked）
	Add(ctx context.Context, tx transaction.Tx, p *Participant) error

	// ListByEvent はイベントの参加者一覧を取得する
	ListByEvent(ctx context.Context, eventID string) ([]*Participant, error)

	// CountByEvent はイベントの参加者数を取得する
	CountByEvent(ctx context.Context, eventID string) (int, error)
}
