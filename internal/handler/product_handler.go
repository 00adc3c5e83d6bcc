package handler

import (
	"net/http"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 商品API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type addProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       flexInt         `json:"stock"`
	Image       *string         `json:"image"`
}

type addProductResponse struct {
	Status    string `json:"status"`
	ProductID string `json:"product_id"`
}

// 商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/products", h.list)
	g.GET("/products/:id", h.detail)
	g.POST("/add-product", h.add)
}

func (h *ProductHandler) list(c echo.Context) error {
	items, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) add(c echo.Context) error {
	var req addProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("price must be a valid number and stock a valid integer"))
	}

	p, err := h.uc.AddProduct(c.Request().Context(), usecase.AddProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock.Value,
		Image:       req.Image,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, addProductResponse{Status: "ok", ProductID: p.ID})
}
