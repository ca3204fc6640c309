package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sarali19/Eventful-Event-management-platform/internal/application"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/user"
)

type UserHandler struct {
	service UserServiceInterface
}

func NewUserHandler(s UserServiceInterface) *UserHandler {
	return &UserHandler{service: s}
}

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,max=100" example:"山田 花子"`
	Email    string `json:"email" validate:"required,email" example:"hanako@example.com"`
	Password string `json:"password" validate:"required,min=8,max=72" example:"s3cretpass"`
	Role     string `json:"role" validate:"omitempty,oneof=ORGANIZER MEMBER" example:"MEMBER"`
}

type UserResponse struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440001"`
	FullName  string `json:"full_name" example:"山田 花子"`
	Email     string `json:"email" example:"hanako@example.com"`
	Role      string `json:"role" example:"MEMBER"`
	CreatedAt string `json:"created_at" example:"2025-06-01T10:00:00+09:00"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// Register godoc
// @Summary ユーザーを登録
// @Description 役割を省略した場合は MEMBER になります
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "ユーザー情報"
// @Success 201 {object} UserResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "メールアドレスが登録済み"
// @Router /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	u, err := h.service.Register(c.Request().Context(), application.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     user.Role(req.Role),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

// GetByID godoc
// @Summary ユーザーを取得
// @Tags users
// @Produce json
// @Param id path string true "ユーザーID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	u, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}
