package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine copia de los datos del artículo al momento de la venta.
// ItemID es opcional: una línea puede no estar ligada a un artículo del catálogo.
type InvoiceLine struct {
	ItemID   string
	Name     string
	SKU      string
	Price    decimal.Decimal
	Quantity int
}

// Amount precio * cantidad de la línea.
func (l InvoiceLine) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Invoice factura emitida. Los totales no se almacenan: se recalculan desde las líneas.
type Invoice struct {
	ID            string
	Number        string // generado por el cliente, único
	PrintedAt     time.Time
	CustomerName  string
	CustomerPhone string
	DiscountRate  decimal.Decimal // porcentaje 0..100
	TaxRate       decimal.Decimal // porcentaje 0..100
	Lines         []InvoiceLine
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
