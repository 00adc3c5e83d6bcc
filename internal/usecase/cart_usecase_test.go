package usecase_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	infraRepo "github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/repository"
	repo "github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func qty(v int64) *int64 { return &v }

func TestCartUsecase_AddToCart_MergesSameProduct(t *testing.T) {
	products := &MockProductRepository{}
	products.On("FindByID", mock.Anything, "p1").Return(model.Product{ID: "p1"}, nil)
	products.On("FindByID", mock.Anything, "p2").Return(model.Product{ID: "p2"}, nil)
	uc := usecase.NewCartUsecase(infraRepo.NewMemoryCartStore(), products)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, "sid-1", usecase.AddCartInput{ProductID: "p1", Quantity: qty(2)})
	require.NoError(t, err)
	_, err = uc.AddToCart(ctx, "sid-1", usecase.AddCartInput{ProductID: "p2"})
	require.NoError(t, err)
	items, err := uc.AddToCart(ctx, "sid-1", usecase.AddCartInput{ProductID: "p1", Quantity: qty(3)})
	require.NoError(t, err)

	assert.Equal(t, []model.CartItem{
		{ProductID: "p1", Quantity: 5},
		{ProductID: "p2", Quantity: 1},
	}, items)

	// 別セッションは空
	other, err := uc.GetCart(ctx, "sid-2")
	require.NoError(t, err)
	assert.Empty(t, other)
	products.AssertExpectations(t)
}

func TestCartUsecase_AddToCart_UnknownProduct(t *testing.T) {
	products := &MockProductRepository{}
	products.On("FindByID", mock.Anything, "ghost").Return(model.Product{}, repo.ErrNotFound)
	carts := &MockCartStore{}
	uc := usecase.NewCartUsecase(carts, products)

	_, err := uc.AddToCart(context.Background(), "sid", usecase.AddCartInput{ProductID: "ghost"})
	requireHTTPError(t, err, http.StatusNotFound, usecase.ErrNotFound)
	carts.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_InvalidInput(t *testing.T) {
	uc := usecase.NewCartUsecase(&MockCartStore{}, &MockProductRepository{})

	_, err := uc.AddToCart(context.Background(), "sid", usecase.AddCartInput{ProductID: ""})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.ErrValidation)

	_, err = uc.AddToCart(context.Background(), "sid", usecase.AddCartInput{ProductID: "p1", Quantity: qty(0)})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.ErrValidation)
}

func TestCartUsecase_AddToCart_QuantityOverflow(t *testing.T) {
	products := &MockProductRepository{}
	products.On("FindByID", mock.Anything, "p1").Return(model.Product{ID: "p1"}, nil)
	uc := usecase.NewCartUsecase(infraRepo.NewMemoryCartStore(), products)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, "sid", usecase.AddCartInput{ProductID: "p1", Quantity: qty(math.MaxInt64)})
	require.NoError(t, err)
	_, err = uc.AddToCart(ctx, "sid", usecase.AddCartInput{ProductID: "p1", Quantity: qty(math.MaxInt64)})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.ErrValidation)

	items, err := uc.GetCart(ctx, "sid")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Positive(t, items[0].Quantity)
}

func TestCartUsecase_StoreFailure_IsInternal(t *testing.T) {
	carts := &MockCartStore{}
	carts.On("Get", mock.Anything, "sid").Return(nil, errors.New("redis down"))
	uc := usecase.NewCartUsecase(carts, &MockProductRepository{})

	_, err := uc.GetCart(context.Background(), "sid")
	requireHTTPError(t, err, http.StatusInternalServerError, usecase.ErrStorageFailure)
}

func TestCartUsecase_ClearCart(t *testing.T) {
	carts := &MockCartStore{}
	carts.On("Clear", mock.Anything, "sid").Return(nil).Once()
	uc := usecase.NewCartUsecase(carts, &MockProductRepository{})

	require.NoError(t, uc.ClearCart(context.Background(), "sid"))
	// sidが無ければ何もしない
	require.NoError(t, uc.ClearCart(context.Background(), ""))
	carts.AssertExpectations(t)
}
