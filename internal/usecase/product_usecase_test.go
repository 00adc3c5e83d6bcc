package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	repo "github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductUsecase_ListProducts_NilBecomesEmpty(t *testing.T) {
	products := &MockProductRepository{}
	products.On("List", mock.Anything).Return(nil, nil)
	uc := usecase.NewProductUsecase(products)

	items, err := uc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestProductUsecase_GetProduct_NotFound(t *testing.T) {
	products := &MockProductRepository{}
	products.On("FindByID", mock.Anything, "nope").Return(model.Product{}, repo.ErrNotFound)
	uc := usecase.NewProductUsecase(products)

	_, err := uc.GetProduct(context.Background(), "nope")
	requireHTTPError(t, err, http.StatusNotFound, usecase.ErrNotFound)
}

func TestProductUsecase_AddProduct_Success(t *testing.T) {
	products := &MockProductRepository{}
	img := "/static/uploads/1_a.png"
	products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == "fixed-id" &&
			p.Name == "Mug" &&
			p.Price.Equal(decimal.RequireFromString("12.50")) &&
			p.Stock == 3 &&
			p.Image != nil && *p.Image == img
	})).Return(model.Product{ID: "fixed-id", Name: "Mug"}, nil)

	uc := usecase.NewProductUsecase(products).WithIDGenerator(func() string { return "fixed-id" })

	p, err := uc.AddProduct(context.Background(), usecase.AddProductInput{
		Name:  "  Mug ",
		Price: decimal.RequireFromString("12.5"),
		Stock: 3,
		Image: &img,
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", p.ID)
	products.AssertExpectations(t)
}

func TestProductUsecase_AddProduct_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   usecase.AddProductInput
	}{
		{"missing name", usecase.AddProductInput{Price: decimal.NewFromInt(1)}},
		{"zero price", usecase.AddProductInput{Name: "x"}},
		{"negative price", usecase.AddProductInput{Name: "x", Price: decimal.NewFromInt(-1)}},
		{"sub-cent price rounds to zero", usecase.AddProductInput{Name: "x", Price: decimal.RequireFromString("0.001")}},
		{"negative stock", usecase.AddProductInput{Name: "x", Price: decimal.NewFromInt(1), Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			products := &MockProductRepository{}
			uc := usecase.NewProductUsecase(products)

			_, err := uc.AddProduct(context.Background(), tc.in)
			requireHTTPError(t, err, http.StatusBadRequest, usecase.ErrValidation)
			products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductUsecase_AddProduct_BlankImageIsNil(t *testing.T) {
	products := &MockProductRepository{}
	products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Image == nil
	})).Return(model.Product{ID: "x"}, nil)
	uc := usecase.NewProductUsecase(products)

	blank := "  "
	_, err := uc.AddProduct(context.Background(), usecase.AddProductInput{Name: "x", Price: decimal.NewFromInt(1), Image: &blank})
	require.NoError(t, err)
	products.AssertExpectations(t)
}

func TestProductUsecase_AddProduct_DBError(t *testing.T) {
	products := &MockProductRepository{}
	products.On("Create", mock.Anything, mock.Anything).Return(model.Product{}, errors.New("db down"))
	uc := usecase.NewProductUsecase(products)

	_, err := uc.AddProduct(context.Background(), usecase.AddProductInput{Name: "x", Price: decimal.NewFromInt(1)})
	requireHTTPError(t, err, http.StatusInternalServerError, usecase.ErrStorageFailure)
}
