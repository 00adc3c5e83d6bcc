package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/db/dbtest"
	infraRepo "github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsJSON = `[
  {"id": "p1", "name": "Mug", "description": "Ceramic", "price": 10.0, "stock": 5},
  {"id": "p2", "name": "Scarf", "price": 24.5, "stock": 12, "image": "/static/uploads/scarf.jpg"}
]`

const productsYAML = `
products:
  - id: p1
    name: Mug
    price: 10.00
    stock: 5
  - id: p3
    name: Notebook
    price: "6.75"
    stock: 40
`

func TestDecode_JSONList(t *testing.T) {
	products, err := Decode(strings.NewReader(productsJSON))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "Ceramic", products[0].Description)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(10)))
	assert.Nil(t, products[0].Image)

	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("24.5")))
	require.NotNil(t, products[1].Image)
	assert.Equal(t, "/static/uploads/scarf.jpg", *products[1].Image)
}

func TestDecode_YAMLWrapped(t *testing.T) {
	products, err := Decode(strings.NewReader(productsYAML))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p3", products[1].ID)
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("6.75")))
	assert.Equal(t, int64(40), products[1].Stock)
}

func TestDecode_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"missing id":     `[{"name": "x", "price": 1, "stock": 1}]`,
		"zero price":     `[{"id": "x", "name": "x", "price": 0, "stock": 1}]`,
		"negative stock": `[{"id": "x", "name": "x", "price": 1, "stock": -1}]`,
		"scalar":         `"hello"`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	products, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProducts_SkipsExistingIDs(t *testing.T) {
	gdb := dbtest.Open(t)
	dbtest.SeedProduct(t, gdb, "p1", "99", 1)
	r := infraRepo.NewProductGormRepository(gdb)

	products, err := Decode(strings.NewReader(productsJSON))
	require.NoError(t, err)

	n, err := Products(context.Background(), r, products)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// 既存の商品は上書きしない
	assert.Equal(t, int64(1), dbtest.Stock(t, gdb, "p1"))
	assert.Equal(t, int64(12), dbtest.Stock(t, gdb, "p2"))

	n, err = Products(context.Background(), r, products)
	require.NoError(t, err)
	assert.Zero(t, n)
}
