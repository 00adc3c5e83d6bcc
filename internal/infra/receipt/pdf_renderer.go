package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"

	"github.com/go-pdf/fpdf"
)

const (
	marginX    = 40.0
	pageBottom = 40.0
)

// PDFRenderer は注文をLetterサイズのチケットPDFにする。
type PDFRenderer struct {
	compress bool
}

// テストでは compress=false にすると本文がそのままPDFに残る
func NewPDFRenderer(compress bool) *PDFRenderer {
	return &PDFRenderer{compress: compress}
}

func (r *PDFRenderer) Render(order model.Order, items []model.OrderItem) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(false, pageBottom)
	// 商品名のUTF-8をコアフォント(cp1252)に変換
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()

	y := 40.0
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(marginX, y, "Purchase Ticket")

	y += 40
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(marginX, y, fmt.Sprintf("Order ID: %d", order.ID))
	y += 20
	pdf.Text(marginX, y, fmt.Sprintf("Total: $%s", order.Total.StringFixed(2)))
	y += 20
	pdf.Text(marginX, y, fmt.Sprintf("Date: %s", order.CreatedAt.UTC().Format(time.RFC3339)))
	y += 30

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginX, y, "Items:")
	y += 20

	pdf.SetFont("Helvetica", "", 11)
	for _, it := range items {
		// ページが埋まったら改ページ
		if y > pageH-pageBottom {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 11)
			y = 40
		}
		pdf.Text(marginX, y, fmt.Sprintf("- %s (%s) x%d @ $%s",
			tr(it.ProductNameSnapshot), tr(it.ProductID), it.Quantity, it.Price.StringFixed(2)))
		y += 18
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
