package user

import (
	"net/mail"
	"strings"
	"time"
)

// Role はユーザーの役割
type Role string

const (
	RoleOrganizer Role = "ORGANIZER"
	RoleMember    Role = "MEMBER"
)

// IsValid は役割が定義済みかを返す
func (r Role) IsValid() bool {
	return r == RoleOrganizer || r == RoleMember
}

// User はユーザーエンティティを表す
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser は新しいユーザーを作成する（パスワードはハッシュ化済みであること）
func NewUser(fullName, email, passwordHash string, role Role) *User {
	now := time.Now()
	return &User{
		FullName:     strings.TrimSpace(fullName),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate はユーザーの検証を行う
func (u *User) Validate() error {
	if u.FullName == "" {
		return ErrFullNameRequired
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}
	if u.PasswordHash == "" {
		return ErrPasswordRequired
	}
	return nil
}

// IsOrganizer は主催者かを返す
func (u *User) IsOrganizer() bool {
	return u.Role == RoleOrganizer
}
