package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	repo "github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// 初期データの1商品（JSONでもYAMLでも同じキー）
type productEntry struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Price       decimal.Decimal `yaml:"price"`
	Stock       int64           `yaml:"stock"`
	Image       *string         `yaml:"image"`
}

// {"products": [...]} 形式も受け付ける
type productFile struct {
	Products []productEntry `yaml:"products"`
}

// Decode は商品リストを読む。JSONはYAMLとしてそのまま読める。
func Decode(r io.Reader) ([]model.Product, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Product{}, nil
		}
		return nil, err
	}

	var entries []productEntry
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&entries); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var f productFile
		if err := root.Decode(&f); err != nil {
			return nil, err
		}
		entries = f.Products
	default:
		return nil, fmt.Errorf("seed file must be a list of products")
	}

	products := make([]model.Product, 0, len(entries))
	for i, e := range entries {
		p, err := e.toModel()
		if err != nil {
			return nil, fmt.Errorf("product #%d: %w", i+1, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (e productEntry) toModel() (model.Product, error) {
	id := strings.TrimSpace(e.ID)
	name := strings.TrimSpace(e.Name)
	if id == "" || name == "" {
		return model.Product{}, fmt.Errorf("id and name are required")
	}
	if !e.Price.IsPositive() {
		return model.Product{}, fmt.Errorf("%s: price must be > 0", id)
	}
	if e.Stock < 0 {
		return model.Product{}, fmt.Errorf("%s: stock must be >= 0", id)
	}
	return model.Product{
		ID:          id,
		Name:        name,
		Description: e.Description,
		Price:       e.Price.Round(2),
		Stock:       e.Stock,
		Image:       e.Image,
	}, nil
}

// Products は未登録のIDだけ追加し、追加件数を返す。
func Products(ctx context.Context, products repo.ProductRepository, items []model.Product) (int, error) {
	inserted := 0
	for _, p := range items {
		_, err := products.FindByID(ctx, p.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return inserted, err
		}
		if _, err := products.Create(ctx, p); err != nil {
			return inserted, fmt.Errorf("create %s: %w", p.ID, err)
		}
		inserted++
	}
	return inserted, nil
}
