package repository

import (
	"context"
	"errors"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// username重複
var ErrDuplicateUsername = errors.New("username already exists")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（重複はErrDuplicateUsername）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//usernameからユーザーを一件取得する。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
