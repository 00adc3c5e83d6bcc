package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	repo "github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"
)

// 注文をチケット（PDFなど）に描画する
type ReceiptRenderer interface {
	Render(order model.Order, items []model.OrderItem) ([]byte, error)
}

type Receipt struct {
	Filename string
	Data     []byte
}

type ReceiptUsecase struct {
	tx       repo.TransactionManager
	renderer ReceiptRenderer
}

func NewReceiptUsecase(tx repo.TransactionManager, renderer ReceiptRenderer) *ReceiptUsecase {
	return &ReceiptUsecase{tx: tx, renderer: renderer}
}

// 読み取りのみ。注文と明細を同じTxで読む
func (u *ReceiptUsecase) Render(ctx context.Context, orderID int64) (Receipt, error) {
	if orderID <= 0 {
		return Receipt{}, notFound("order not found")
	}

	var (
		order model.Order
		items []model.OrderItem
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("order not found")
		}
		if err != nil {
			return storageError(err)
		}
		its, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return storageError(err)
		}
		order, items = o, its
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	data, err := u.renderer.Render(order, items)
	if err != nil {
		return Receipt{}, storageError(fmt.Errorf("render receipt: %w", err))
	}
	return Receipt{
		Filename: fmt.Sprintf("ticket_%d.pdf", orderID),
		Data:     data,
	}, nil
}
