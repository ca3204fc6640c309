package user

import "errors"

// User ドメインのエラー定義
var (
	ErrUserNotFound       = errors.New("ユーザーが見つかりません")
	ErrEmailAlreadyExists = errors.New("このメールアドレスは既に登録されています")
	ErrFullNameRequired   = errors.New("氏名は必須です")
	ErrInvalidEmail       = errors.New("メールアドレスが不正です")
	ErrInvalidRole        = errors.New("役割が不正です")
	ErrPasswordRequired   = errors.New("パスワードは必須です")
)
