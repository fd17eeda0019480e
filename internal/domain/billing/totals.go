package billing

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals montos derivados de las líneas de una factura (servicio de dominio, sin estado).
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountRate   decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxRate        decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// RatePlaces decimales que guarda una tasa (columna NUMERIC(5,2)).
const RatePlaces = 2

// ClampRate limita un porcentaje al rango [0, 100] y lo redondea a RatePlaces,
// igual que lo almacena la base de datos. Nunca rechaza.
func ClampRate(rate decimal.Decimal) decimal.Decimal {
	if rate.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if rate.GreaterThan(hundred) {
		return hundred
	}
	return rate.Round(RatePlaces)
}

// Compute calcula los totales:
//
//	subtotal       = Σ precio * cantidad
//	descuento      = subtotal * descuento% / 100
//	base           = max(subtotal - descuento, 0)
//	impuesto       = base * impuesto% / 100
//	total          = base + impuesto
//
// El resultado no depende del orden de las líneas.
func Compute(lines []entity.InvoiceLine, discountRate, taxRate decimal.Decimal) Totals {
	discountRate = ClampRate(discountRate)
	taxRate = ClampRate(taxRate)

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount())
	}
	discount := subtotal.Mul(discountRate).Div(hundred)
	base := subtotal.Sub(discount)
	if base.LessThan(decimal.Zero) {
		base = decimal.Zero
	}
	tax := base.Mul(taxRate).Div(hundred)

	return Totals{
		Subtotal:       subtotal,
		DiscountRate:   discountRate,
		DiscountAmount: discount,
		TaxRate:        taxRate,
		TaxAmount:      tax,
		Total:          base.Add(tax),
	}
}

// Rounded devuelve los montos redondeados a 2 decimales (forma de presentación).
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:       t.Subtotal.Round(2),
		DiscountRate:   t.DiscountRate,
		DiscountAmount: t.DiscountAmount.Round(2),
		TaxRate:        t.TaxRate,
		TaxAmount:      t.TaxAmount.Round(2),
		Total:          t.Total.Round(2),
	}
}
