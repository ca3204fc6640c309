package application

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/user"
	"github.com/sarali19/Eventful-Event-management-platform/internal/pkg/logger"
)

type UserService struct {
	userRepo   user.Repository
	bcryptCost int
}

func NewUserService(userRepo user.Repository, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{userRepo: userRepo, bcryptCost: bcryptCost}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     user.Role
}

// Register はユーザーを登録する。パスワードは bcrypt でハッシュ化して保存する
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	if input.Password == "" {
		return nil, fmt.Errorf("バリデーションエラー: %w", user.ErrPasswordRequired)
	}
	if input.Role == "" {
		input.Role = user.RoleMember
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}

	u := user.NewUser(input.FullName, input.Email, string(hash), input.Role)
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("ユーザーを登録しました", logger.UserID(u.ID))
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*user.User, error) {
	if !isValidID(id) {
		return nil, user.ErrUserNotFound
	}
	return s.userRepo.GetByID(ctx, id)
}

