package receipt

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() (model.Order, []model.OrderItem) {
	order := model.Order{
		ID:        42,
		Total:     decimal.RequireFromString("36"),
		CreatedAt: time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC),
	}
	items := []model.OrderItem{
		{ProductID: "p1", ProductNameSnapshot: "Mug", Quantity: 3, Price: decimal.RequireFromString("10")},
		{ProductID: "p2", ProductNameSnapshot: "Scarf", Quantity: 1, Price: decimal.RequireFromString("6")},
	}
	return order, items
}

func TestPDFRenderer_Render_ContainsOrderLines(t *testing.T) {
	order, items := sampleOrder()

	data, err := NewPDFRenderer(false).Render(order, items)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	for _, want := range []string{
		"Purchase Ticket",
		"Order ID: 42",
		"Total: $36.00",
		"Date: 2025-05-06T07:08:09Z",
		"Items:",
		"- Mug",
		"x3 @ $10.00",
		"- Scarf",
		"x1 @ $6.00",
	} {
		assert.Contains(t, string(data), want)
	}
}

func TestPDFRenderer_Render_ManyItemsAddPages(t *testing.T) {
	order, _ := sampleOrder()
	items := make([]model.OrderItem, 0, 120)
	for i := 0; i < 120; i++ {
		items = append(items, model.OrderItem{
			ProductID:           fmt.Sprintf("p%d", i),
			ProductNameSnapshot: fmt.Sprintf("Item %d", i),
			Quantity:            1,
			Price:               decimal.NewFromInt(1),
		})
	}

	data, err := NewPDFRenderer(false).Render(order, items)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Item 119")
	pages := bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
	assert.Greater(t, pages, 1)
}

func TestPDFRenderer_Render_Compressed(t *testing.T) {
	order, items := sampleOrder()

	data, err := NewPDFRenderer(true).Render(order, items)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
