package repository

import (
	"context"
	"errors"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	repo "github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 全商品（登録順）
func (r *ProductGormRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// 行ロック付きで取得（SQLiteはDB全体が直列なのでロック句なし）
func (r *ProductGormRepository) FindByIDForUpdate(ctx context.Context, id string) (model.Product, error) {
	tx := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.find(tx, id)
}

func (r *ProductGormRepository) find(tx *gorm.DB, id string) (model.Product, error) {
	var p model.Product
	err := tx.Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}
