package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	//404
	ErrNotFound = errors.New("not found")
	//409 在庫不足
	ErrInsufficientStock = errors.New("insufficient stock")
	//400 空の注文
	ErrEmptyCart = errors.New("cart is empty")
	//401
	ErrUnauthenticated = errors.New("not logged in")
	//400 入力不正
	ErrValidation = errors.New("validation error")
	//500 DBなど
	ErrStorageFailure = errors.New("storage failure")
	//409 重複
	ErrConflict = errors.New("conflict")
	//401 ログイン失敗
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// handlerはStatusとMessageだけを見る。Errは errors.Is 用。
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func WrapHTTPError(status int, message string, err error) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     err,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 500。原因はErrに残し、クライアントには出さない
func storageError(err error) error {
	return WrapHTTPError(http.StatusInternalServerError, "internal error", fmt.Errorf("%w: %w", ErrStorageFailure, err))
}

func notFound(message string) error {
	return WrapHTTPError(http.StatusNotFound, message, ErrNotFound)
}

func validationError(message string) error {
	return WrapHTTPError(http.StatusBadRequest, message, ErrValidation)
}

func unauthenticated() error {
	return WrapHTTPError(http.StatusUnauthorized, "not logged in", ErrUnauthenticated)
}
