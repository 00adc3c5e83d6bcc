package middleware

import (
	"errors"
	"net/http"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"  // int64
	CtxSessionKey  = "session"  // *sessions.Session
	CtxCartSIDKey  = "cart_sid" // string
	CtxUsernameKey = "username" // string
)

// cookieに入れる値
const (
	sessionUserID   = "user_id"
	sessionUsername = "username"
	sessionSID      = "sid"
)

var ErrNoSession = errors.New("no session in context")

// Session はcookieセッションを読み込み、カート用のsidが無ければ発行する。
func Session(store sessions.Store, name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// 改ざん・期限切れのcookieはエラーと一緒に新しいセッションが返る
			sess, _ := store.Get(c.Request(), name)
			if sess == nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			sid, _ := sess.Values[sessionSID].(string)
			if sid == "" {
				sid = uuid.NewString()
				sess.Values[sessionSID] = sid
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
			}

			c.Set(CtxSessionKey, sess)
			c.Set(CtxCartSIDKey, sid)
			if uid, ok := sess.Values[sessionUserID].(int64); ok && uid > 0 {
				c.Set(CtxUserIDKey, uid)
				c.Set(CtxUsernameKey, sess.Values[sessionUsername])
			}

			return next(c)
		}
	}
}

// RequireUser はログイン済みで、そのユーザーがまだ存在することを確認する。
func RequireUser(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Sessionが入れたuser_id を取得する
			userID, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("not logged in"))
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if errors.Is(err, repository.ErrUserNotFound) || (err == nil && user == nil) {
				return c.JSON(http.StatusUnauthorized, errorJSON("not logged in"))
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			return next(c)
		}
	}
}

func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func CartSessionID(c echo.Context) string {
	sid, _ := c.Get(CtxCartSIDKey).(string)
	return sid
}

func sessionFrom(c echo.Context) (*sessions.Session, error) {
	sess, ok := c.Get(CtxSessionKey).(*sessions.Session)
	if !ok || sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}

// ログイン成功時にユーザーをセッションへ保存（カートのsidはそのまま）
func StartUserSession(c echo.Context, userID int64, username string) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return err
	}
	sess.Values[sessionUserID] = userID
	sess.Values[sessionUsername] = username
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	c.Set(CtxUserIDKey, userID)
	c.Set(CtxUsernameKey, username)
	return nil
}

// セッションを空にしてcookieを失効させる
func EndSession(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return err
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Status: "error", Message: msg}
}
