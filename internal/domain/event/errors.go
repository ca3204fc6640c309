package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound          = errors.New("イベントが見つかりません")
	ErrTitleRequired          = errors.New("タイトルは必須です")
	ErrEventDateRequired      = errors.New("開催日は必須です")
	ErrCityRequired           = errors.New("都市は必須です")
	ErrLocationRequired       = errors.New("会場は必須です")
	ErrInvalidCategory        = errors.New("カテゴリが不正です")
	ErrInvalidPrice           = errors.New("価格は0以上である必要があります")
	ErrInvalidCapacity        = errors.New("定員は1以上である必要があります")
	ErrInvalidOccupancy       = errors.New("参加者数が定員の範囲外です")
	ErrInvalidEventTime       = errors.New("終了時刻は開始時刻より後である必要があります（HH:MM形式）")
	ErrOrganizerRequired      = errors.New("主催者は必須です")
	ErrNotOrganizer           = errors.New("イベントの主催者ではありません")
	ErrCapacityExceeded       = errors.New("イベントは満席です")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)
