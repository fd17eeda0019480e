package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/jhoicas/tienda-pos/internal/domain/billing"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Ejemplo de referencia: (10 × 2) + (5 × 1), descuento 10%, impuesto 8%
//
//	subtotal 25, descuento 2.5, base 22.5, impuesto 1.8, total 24.3
// ──────────────────────────────────────────────────────────────────────────────

func TestCompute_EjemploReferencia(t *testing.T) {
	lines := []entity.InvoiceLine{
		{Name: "A", Price: d("10"), Quantity: 2},
		{Name: "B", Price: d("5"), Quantity: 1},
	}

	got := billing.Compute(lines, d("10"), d("8"))

	assert.True(t, got.Subtotal.Equal(d("25")), "subtotal: %s", got.Subtotal)
	assert.True(t, got.DiscountAmount.Equal(d("2.5")), "descuento: %s", got.DiscountAmount)
	assert.True(t, got.TaxAmount.Equal(d("1.8")), "impuesto: %s", got.TaxAmount)
	assert.True(t, got.Total.Equal(d("24.3")), "total: %s", got.Total)
	assert.True(t, got.Subtotal.Sub(got.DiscountAmount).Equal(d("22.5")))
}

func TestCompute_SinLineas(t *testing.T) {
	got := billing.Compute(nil, decimal.Zero, decimal.Zero)

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.DiscountAmount.IsZero())
	assert.True(t, got.TaxAmount.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestCompute_OrdenDeLineasNoImporta(t *testing.T) {
	a := entity.InvoiceLine{Price: d("3.33"), Quantity: 3}
	b := entity.InvoiceLine{Price: d("0.10"), Quantity: 7}
	c := entity.InvoiceLine{Price: d("12.5"), Quantity: 1}

	x := billing.Compute([]entity.InvoiceLine{a, b, c}, d("15"), d("19"))
	y := billing.Compute([]entity.InvoiceLine{c, a, b}, d("15"), d("19"))

	assert.True(t, x.Total.Equal(y.Total))
	assert.True(t, x.Subtotal.Equal(y.Subtotal))
}

func TestCompute_TasasFueraDeRangoSeAjustan(t *testing.T) {
	lines := []entity.InvoiceLine{{Price: d("10"), Quantity: 1}}

	got := billing.Compute(lines, d("150"), d("-5"))

	assert.True(t, got.DiscountRate.Equal(d("100")))
	assert.True(t, got.TaxRate.IsZero())
	assert.True(t, got.Total.IsZero(), "descuento del 100%% deja total 0")
}

func TestTotals_Rounded(t *testing.T) {
	lines := []entity.InvoiceLine{{Price: d("0.333"), Quantity: 3}}

	got := billing.Compute(lines, decimal.Zero, d("19")).Rounded()

	assert.Equal(t, "1", got.Subtotal.String())
	assert.Equal(t, "0.19", got.TaxAmount.String())
	assert.Equal(t, "1.19", got.Total.String())
}

func TestClampRate(t *testing.T) {
	assert.True(t, billing.ClampRate(d("-1")).IsZero())
	assert.True(t, billing.ClampRate(d("101")).Equal(d("100")))
	assert.True(t, billing.ClampRate(d("12.5")).Equal(d("12.5")))
	assert.True(t, billing.ClampRate(d("8.125")).Equal(d("8.13")))
	assert.True(t, billing.ClampRate(d("99.999")).Equal(d("100")))
}

func TestCompute_TasaConMasDecimalesIgualQueGuardada(t *testing.T) {
	lines := []entity.InvoiceLine{{Price: d("100"), Quantity: 1}}
	got := billing.Compute(lines, d("0"), d("8.125"))
	stored := billing.Compute(lines, d("0"), d("8.13"))
	assert.True(t, stored.TaxRate.Equal(got.TaxRate))
	assert.True(t, stored.Total.Equal(got.Total))
	assert.Equal(t, "8.13", got.TaxAmount.String())
}
