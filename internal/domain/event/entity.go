package event

import (
	"time"
)

// Category はイベントのカテゴリ
type Category string

const (
	CategoryConcert    Category = "CONCERT"
	CategoryConference Category = "CONFERENCE"
	CategorySports     Category = "SPORTS"
	CategoryTheater    Category = "THEATER"
	CategoryWorkshop   Category = "WORKSHOP"
	CategoryOther      Category = "OTHER"
)

// IsValid はカテゴリが定義済みかを返す
func (c Category) IsValid() bool {
	switch c {
	case CategoryConcert, CategoryConference, CategorySports, CategoryTheater, CategoryWorkshop, CategoryOther:
		return true
	}
	return false
}

// TimeLayout は開始・終了時刻の表記（HH:MM）
const TimeLayout = "15:04"

// Details は主催者が編集できるイベントの記述項目
type Details struct {
	Title       string
	Description string
	EventDate   time.Time
	StartTime   string
	EndTime     string
	City        string
	Location    string
	Category    Category
	Price       float64
}

// Event はイベントエンティティを表す
// Occupancy と AverageRating はイベント自身が所有し、予約・評価のトランザクション内でのみ更新される
type Event struct {
	ID string
	Details
	Capacity      int // 作成後は変更不可
	Occupancy     int // 0 <= Occupancy <= Capacity
	AverageRating float64
	OrganizerID   string // 作成後は変更不可
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int // 記述項目更新の楽観的ロック用（集計値の更新では増えない）
}

// NewEvent は新しいイベントを作成する
func NewEvent(organizerID string, details Details, capacity int) *Event {
	now := time.Now()
	return &Event{
		Details:       details,
		Capacity:      capacity,
		Occupancy:     0,
		AverageRating: 0,
		OrganizerID:   organizerID,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       0,
	}
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.OrganizerID == "" {
		return ErrOrganizerRequired
	}
	if e.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if e.Occupancy < 0 || e.Occupancy > e.Capacity {
		return ErrInvalidOccupancy
	}
	return e.Details.Validate()
}

// Validate は記述項目の検証を行う
func (d Details) Validate() error {
	if d.Title == "" {
		return ErrTitleRequired
	}
	if d.EventDate.IsZero() {
		return ErrEventDateRequired
	}
	if d.City == "" {
		return ErrCityRequired
	}
	if d.Location == "" {
		return ErrLocationRequired
	}
	if !d.Category.IsValid() {
		return ErrInvalidCategory
	}
	if d.Price < 0 {
		return ErrInvalidPrice
	}
	start, err := time.Parse(TimeLayout, d.StartTime)
	if err != nil {
		return ErrInvalidEventTime
	}
	end, err := time.Parse(TimeLayout, d.EndTime)
	if err != nil {
		return ErrInvalidEventTime
	}
	if !end.After(start) {
		return ErrInvalidEventTime
	}
	return nil
}

// IsOrganizedBy は指定ユーザーが主催者かを返す
func (e *Event) IsOrganizedBy(userID string) bool {
	return e.OrganizerID == userID
}

// AvailableSeats は空席数を返す
func (e *Event) AvailableSeats() int {
	return e.Capacity - e.Occupancy
}

// HasFreeSeat は空席があるかを返す
func (e *Event) HasFreeSeat() bool {
	return e.Occupancy < e.Capacity
}

// Admit は1席分の入場を認め、占有数を1増やす
// 満席の場合は何も変更せず ErrCapacityExceeded を返す
func (e *Event) Admit() error {
	if !e.HasFreeSeat() {
		return ErrCapacityExceeded
	}
	e.Occupancy++
	e.UpdatedAt = time.Now()
	return nil
}

// SetAverageRating は再計算済みの平均評価を反映する
func (e *Event) SetAverageRating(avg float64) {
	e.AverageRating = avg
	e.UpdatedAt = time.Now()
}

// UpdateDetails は記述項目を更新する（定員と主催者は変更しない）
func (e *Event) UpdateDetails(d Details) error {
	if err := d.Validate(); err != nil {
		return err
	}
	e.Details = d
	e.UpdatedAt = time.Now()
	return nil
}

// Stats はイベントの予約・評価状況の集計
type Stats struct {
	EventID        string
	Capacity       int
	Occupancy      int
	AvailableSeats int
	AverageRating  float64
	RatingCount    int
}

// StatsOf はイベントと評価件数から集計を作成する
func StatsOf(e *Event, ratingCount int) *Stats {
	return &Stats{
		EventID:        e.ID,
		Capacity:       e.Capacity,
		Occupancy:      e.Occupancy,
		AvailableSeats: e.AvailableSeats(),
		AverageRating:  e.AverageRating,
		RatingCount:    ratingCount,
	}
}
