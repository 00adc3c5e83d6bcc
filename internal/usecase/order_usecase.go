package usecase

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	repo "github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 注文の結果（metricsのラベル）
const (
	OutcomeCommitted          = "committed"
	OutcomeRejectedEmpty      = "rejected_empty"
	OutcomeRejectedValidation = "rejected_validation"
	OutcomeRejectedNotFound   = "rejected_not_found"
	OutcomeRejectedStock      = "rejected_stock"
	OutcomeFailed             = "failed"
)

// 時刻はテストで差し替える
type Clock func() time.Time

type OrderMetrics interface {
	ObserveOrder(outcome string)
}

type nopOrderMetrics struct{}

func (nopOrderMetrics) ObserveOrder(string) {}

type OrderUsecase struct {
	tx      repo.TransactionManager
	log     *zap.Logger
	metrics OrderMetrics
	now     Clock

	// 検証から書き込みまでを1件ずつに直列化
	mu sync.Mutex
}

type OrderOption func(*OrderUsecase)

func WithOrderMetrics(m OrderMetrics) OrderOption {
	return func(u *OrderUsecase) {
		if m != nil {
			u.metrics = m
		}
	}
}

func WithClock(c Clock) OrderOption {
	return func(u *OrderUsecase) {
		if c != nil {
			u.now = c
		}
	}
}

func NewOrderUsecase(tx repo.TransactionManager, log *zap.Logger, opts ...OrderOption) *OrderUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	u := &OrderUsecase{
		tx:      tx,
		log:     log,
		metrics: nopOrderMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type OrderLineInput struct {
	ProductID string
	Quantity  int64
}

type PlaceOrderInput struct {
	Items           []OrderLineInput
	ShippingAddress model.Blob
	Payment         model.Blob
}

type PlaceOrderOutput struct {
	OrderID int64           `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

type OrderItemOutput struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	Total           decimal.Decimal   `json:"total"`
	ShippingAddress model.Blob        `json:"shippingAddress"`
	Payment         model.Blob        `json:"payment"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

// 検証済みの1行
type orderLine struct {
	product model.Product
	qty     int64
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (PlaceOrderOutput, error) {
	out, err := u.placeOrder(ctx, userID, in)
	outcome := orderOutcome(err)
	u.metrics.ObserveOrder(outcome)

	switch outcome {
	case OutcomeCommitted:
		u.log.Info("order committed",
			zap.Int64("order_id", out.OrderID),
			zap.Int64("user_id", userID),
			zap.String("total", out.Total.String()),
		)
	case OutcomeFailed:
		u.log.Error("order failed", zap.Int64("user_id", userID), zap.Error(err))
	default:
		u.log.Info("order rejected", zap.Int64("user_id", userID), zap.String("outcome", outcome), zap.Error(err))
	}
	return out, err
}

func (u *OrderUsecase) placeOrder(ctx context.Context, userID int64, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if userID <= 0 {
		return PlaceOrderOutput{}, unauthenticated()
	}
	//ストレージに触る前に弾く
	if len(in.Items) == 0 {
		return PlaceOrderOutput{}, WrapHTTPError(http.StatusBadRequest, "cart is empty", ErrEmptyCart)
	}

	lines, err := mergeLines(in.Items)
	if err != nil {
		return PlaceOrderOutput{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	var out PlaceOrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//1) 検証（書き込みなし）。最初に失敗した行で止める
		validated := make([]orderLine, 0, len(lines))
		total := decimal.Zero
		for _, l := range lines {
			p, err := r.Products().FindByIDForUpdate(ctx, l.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return notFound("product not found: " + l.ProductID)
			}
			if err != nil {
				return storageError(err)
			}
			if p.Stock < l.Quantity {
				return insufficientStock(p.ID)
			}
			total = total.Add(p.Price.Mul(decimal.NewFromInt(l.Quantity)))
			validated = append(validated, orderLine{product: p, qty: l.Quantity})
		}

		//2) 注文ヘッダ
		now := u.now().UTC()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:    userID,
			Total:     total,
			Shipping:  in.ShippingAddress.OrEmpty(),
			Payment:   in.Payment.OrEmpty(),
			CreatedAt: now,
		})
		if err != nil {
			return storageError(err)
		}

		//在庫減算（条件付きUPDATE）＋スナップショット
		items := make([]model.OrderItem, 0, len(validated))
		for _, v := range validated {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, v.product.ID, v.qty)
			if err != nil {
				return storageError(err)
			}
			if !ok {
				return insufficientStock(v.product.ID)
			}
			items = append(items, model.OrderItem{
				ProductID:           v.product.ID,
				ProductNameSnapshot: v.product.Name,
				Quantity:            v.qty,
				Price:               v.product.Price,
				CreatedAt:           now,
			})
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return storageError(err)
		}

		out = PlaceOrderOutput{OrderID: orderID, Total: total}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return PlaceOrderOutput{}, err
		}
		//commit自体の失敗
		return PlaceOrderOutput{}, storageError(err)
	}
	return out, nil
}

// 同じ商品の行は数量を合算（最初に出た順）
func mergeLines(items []OrderLineInput) ([]OrderLineInput, error) {
	merged := make([]OrderLineInput, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" {
			return nil, validationError("invalid productId")
		}
		if it.Quantity <= 0 {
			return nil, validationError("invalid quantity")
		}
		if i, ok := index[pid]; ok {
			// 合算でint64があふれる数量は受け付けない
			if merged[i].Quantity > math.MaxInt64-it.Quantity {
				return nil, validationError("invalid quantity")
			}
			merged[i].Quantity += it.Quantity
			continue
		}
		index[pid] = len(merged)
		merged = append(merged, OrderLineInput{ProductID: pid, Quantity: it.Quantity})
	}
	return merged, nil
}

func insufficientStock(productID string) error {
	return WrapHTTPError(http.StatusConflict, "insufficient stock for product "+productID, ErrInsufficientStock)
}

func orderOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, ErrEmptyCart):
		return OutcomeRejectedEmpty
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnauthenticated):
		return OutcomeRejectedValidation
	case errors.Is(err, ErrNotFound):
		return OutcomeRejectedNotFound
	case errors.Is(err, ErrInsufficientStock):
		return OutcomeRejectedStock
	default:
		return OutcomeFailed
	}
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, unauthenticated()
	}

	//ページングは無し。新しい順に固定件数
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID, 50)
		if err != nil {
			return storageError(err)
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return storageError(err)
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, unauthenticated()
	}
	if orderID <= 0 {
		return OrderOutput{}, validationError("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("order not found")
		}
		if err != nil {
			return storageError(err)
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return notFound("order not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return storageError(err)
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Total:           o.Total,
		ShippingAddress: o.Shipping.OrEmpty(),
		Payment:         o.Payment.OrEmpty(),
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
