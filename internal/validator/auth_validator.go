package validator

import (
	"context"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/usecase"
)

// usernameの最大長（usersテーブルの列幅）
const maxUsernameLen = 64

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証（前後の空白はusecaseで除去済み）
func (v *authValidator) ValidateRegister(ctx context.Context, username string, password string) error {
	// 必須チェック
	if username == "" || password == "" {
		return invalidInput("username and password are required")
	}

	if utf8.RuneCountInString(username) > maxUsernameLen {
		return invalidInput("username too long")
	}

	// username重複チェック（DBが必要）
	u, err := v.users.FindByUsername(ctx, username)
	if err == nil && u != nil {
		return usecase.WrapHTTPError(http.StatusConflict, "username already exists", usecase.ErrConflict)
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return usecase.WrapHTTPError(http.StatusInternalServerError, "internal error", errors.Join(usecase.ErrStorageFailure, err))
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, username string, password string) error {
	// 空は照合するまでもなく失敗
	if username == "" || password == "" {
		return usecase.WrapHTTPError(http.StatusUnauthorized, "invalid credentials", usecase.ErrInvalidCredentials)
	}
	return nil
}

func invalidInput(message string) error {
	return usecase.WrapHTTPError(http.StatusBadRequest, message, usecase.ErrValidation)
}
