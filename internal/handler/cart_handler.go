package handler

import (
	"net/http"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/middleware"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/cartのHTTP（ログイン不要、セッション単位）
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type addCartRequest struct {
	ProductID productRef `json:"productId"`
	Quantity  flexInt    `json:"quantity"`
}

type cartResponse struct {
	Status string           `json:"status"`
	Cart   []model.CartItem `json:"cart"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/cart", h.getCart)
	g.POST("/cart", h.addToCart)
	g.DELETE("/cart", h.clearCart)
}

func (h *CartHandler) getCart(c echo.Context) error {
	items, err := h.uc.GetCart(c.Request().Context(), middleware.CartSessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req addCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	items, err := h.uc.AddToCart(c.Request().Context(), middleware.CartSessionID(c), usecase.AddCartInput{
		ProductID: string(req.ProductID),
		Quantity:  req.Quantity.ptr(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse{Status: "ok", Cart: items})
}

func (h *CartHandler) clearCart(c echo.Context) error {
	if err := h.uc.ClearCart(c.Request().Context(), middleware.CartSessionID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, okJSON(""))
}
