package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/tienda-pos/internal/application/billing"
	domainbilling "github.com/jhoicas/tienda-pos/internal/domain/billing"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", money(decimal.Zero))
	assert.Equal(t, "$999.90", money(decimal.RequireFromString("999.9")))
	assert.Equal(t, "$1,234,567.50", money(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "-$1,000.00", money(decimal.NewFromInt(-1000)))
}

func TestGenerateInvoicePDF_DevuelvePDF(t *testing.T) {
	inv := &entity.Invoice{
		Number:    "INV-TEST-0001",
		PrintedAt: time.Date(2025, 2, 3, 10, 30, 0, 0, time.UTC),
		Lines: []entity.InvoiceLine{
			{Name: "Wireless Mouse", SKU: "ELEC-MOUSE-001", Price: decimal.RequireFromString("29.99"), Quantity: 2},
		},
		TaxRate: decimal.NewFromInt(8),
	}
	totals := domainbilling.Compute(inv.Lines, inv.DiscountRate, inv.TaxRate)

	b, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), appbilling.ShopInfo{Name: "Mi Tienda"}, inv, totals)
	require.NoError(t, err)
	require.Greater(t, len(b), 4)
	assert.Equal(t, "%PDF", string(b[:4]))
}
