package handler

import (
	"net/http"
	"strconv"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/middleware"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	uc       *usecase.OrderUsecase
	receipts *usecase.ReceiptUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase, receipts *usecase.ReceiptUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, receipts: receipts}
}

type orderLineRequest struct {
	ProductID productRef `json:"productId"`
	Quantity  flexInt    `json:"quantity"`
}

type orderCreateRequest struct {
	Items           []orderLineRequest `json:"items"`
	ShippingAddress model.Blob         `json:"shippingAddress"`
	Payment         model.Blob         `json:"payment"`
}

type orderCreateResponse struct {
	Status  string          `json:"status"`
	OrderID int64           `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, userRepo repository.UserRepository) {
	g := e.Group("/api")
	requireUser := middleware.RequireUser(userRepo)

	g.POST("/order", h.create, requireUser)
	g.GET("/orders", h.list, requireUser)
	g.GET("/order/:id", h.detail, requireUser)
	// チケットはログイン不要
	g.GET("/order/:id/ticket", h.ticket)
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSON("not logged in"))
	}

	var req orderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	lines := make([]usecase.OrderLineInput, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, usecase.OrderLineInput{
			ProductID: string(it.ProductID),
			Quantity:  it.Quantity.Value,
		})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		Items:           lines,
		ShippingAddress: req.ShippingAddress,
		Payment:         req.Payment,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, orderCreateResponse{
		Status:  "ok",
		OrderID: out.OrderID,
		Total:   out.Total,
	})
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSON("not logged in"))
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSON("not logged in"))
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid id"))
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/order/:id/ticket PDFを添付ファイルで返す
func (h *OrderHandler) ticket(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, errorJSON("order not found"))
	}

	rc, err := h.receipts.Render(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+rc.Filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", rc.Data)
}
