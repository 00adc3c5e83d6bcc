package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, username string, password string) error
	ValidateLogin(ctx context.Context, username string, password string) error
}

type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type AuthRegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthUsecase struct {
	users     repository.UserRepository
	validator AuthValidator
}

func NewAuthUsecase(users repository.UserRepository, validator AuthValidator) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		validator: validator,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, username, password); err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Password: password,
	}

	//同時登録で validator をすり抜けた重複は一意制約で検知
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, WrapHTTPError(http.StatusConflict, "username already exists", ErrConflict)
		}
		return nil, storageError(err)
	}

	dto := toUserDTO(user)
	return &dto, nil
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (*UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	if err := u.validator.ValidateLogin(ctx, username, password); err != nil {
		return nil, err
	}

	user, err := u.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, storageError(err)
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return nil, invalidCredentials()
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// セッションのuser_idがまだ有効か
func (u *AuthUsecase) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	if userID <= 0 {
		return nil, unauthenticated()
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, unauthenticated()
	}
	if err != nil {
		return nil, storageError(err)
	}

	dto := toUserDTO(user)
	return &dto, nil
}

func invalidCredentials() error {
	return WrapHTTPError(http.StatusUnauthorized, "invalid credentials", ErrInvalidCredentials)
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
	}
}
