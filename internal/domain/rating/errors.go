package rating

import "errors"

// Rating ドメインのエラー定義
var (
	ErrRatingNotFound = errors.New("評価が見つかりません")
	ErrInvalidScore   = errors.New("評価は1から5の整数である必要があります")
	ErrNotParticipant = errors.New("予約していないイベントは評価できません")
)
