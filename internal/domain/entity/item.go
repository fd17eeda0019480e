package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item artículo del catálogo de la tienda.
// Quantity solo cambia a través del ajuste de stock; nunca es negativa.
type Item struct {
	ID             string
	Name           string
	Category       string
	Type           string
	SKU            string // código de barras; único cuando no está vacío
	Quantity       int
	MinStockLevel  int
	Price          decimal.Decimal
	Location       string
	Supplier       string
	BatchNumber    string
	ExpirationDate *time.Time
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLowStock indica si el artículo tiene nivel mínimo configurado y está por debajo.
func (i *Item) IsLowStock() bool {
	return i.MinStockLevel > 0 && i.Quantity < i.MinStockLevel
}

// Value valor de inventario del artículo (precio * cantidad).
func (i *Item) Value() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
