package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	repo "github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type IDGenerator func() string

type ProductUsecase struct {
	productRepo repo.ProductRepository
	newID       IDGenerator
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		newID:       uuid.NewString,
	}
}

// テスト用にID採番を差し替える
func (u *ProductUsecase) WithIDGenerator(gen IDGenerator) *ProductUsecase {
	if gen != nil {
		u.newID = gen
	}
	return u
}

// POST /api/add-productの入力DTO
type AddProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	Image       *string
}

func (u *ProductUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	items, err := u.productRepo.List(ctx)
	if err != nil {
		return []model.Product{}, storageError(err)
	}
	if items == nil {
		items = []model.Product{}
	}
	return items, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, id string) (model.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Product{}, validationError("invalid product id")
	}
	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, notFound("product not found")
	}
	if err != nil {
		return model.Product{}, storageError(err)
	}
	return p, nil
}

func (u *ProductUsecase) AddProduct(ctx context.Context, in AddProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	//保存されるのは2桁に丸めた値なので、丸めた後で判定する
	price := in.Price.Round(2)
	if name == "" || !price.IsPositive() {
		return model.Product{}, validationError("name and price (>0) are required")
	}
	if in.Stock < 0 {
		return model.Product{}, validationError("stock must be >= 0")
	}

	//空文字の画像URLは未設定扱い
	var image *string
	if in.Image != nil {
		if s := strings.TrimSpace(*in.Image); s != "" {
			image = &s
		}
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		ID:          u.newID(),
		Name:        name,
		Description: in.Description,
		Price:       price,
		Stock:       in.Stock,
		Image:       image,
	})
	if err != nil {
		return model.Product{}, storageError(err)
	}
	return p, nil
}
