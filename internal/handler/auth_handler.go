package handler

import (
	"net/http"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/middleware"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc    *usecase.AuthUsecase
	carts *usecase.CartUsecase // ログアウト時にカートを消す
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase, carts *usecase.CartUsecase) *AuthHandler {
	return &AuthHandler{uc: uc, carts: carts}
}

type loginResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	User    usecase.UserDTO `json:"user"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
}

// POST /api/register
func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	if _, err := h.uc.Register(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, okJSON("user registered"))
}

// POST /api/login
func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	user, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	//セッションにuser_idとusernameを入れる
	if err := middleware.StartUserSession(c, user.ID, user.Username); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, loginResponse{
		Status:  "ok",
		Message: "login successful",
		User:    *user,
	})
}

// POST /api/logout
func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.carts.ClearCart(c.Request().Context(), middleware.CartSessionID(c)); err != nil {
		return writeError(c, err)
	}
	if err := middleware.EndSession(c); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, okJSON(""))
}
