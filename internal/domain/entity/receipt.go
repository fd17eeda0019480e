package entity

import "time"

// Receipt registro inmutable de una recepción de mercancía.
// NewQuantity = PreviousQuantity + Quantity por construcción.
type Receipt struct {
	ID               string
	ItemID           string
	ItemName         string
	SKU              string
	Quantity         int
	PreviousQuantity int
	NewQuantity      int
	ReceivedBy       string
	ReceivedAt       time.Time
	CreatedAt        time.Time
	Seq              int64 // orden de inserción, desempate al listar
}

// SortTime fecha usada para ordenar: ReceivedAt, o CreatedAt si no hay fecha de recepción.
func (r *Receipt) SortTime() time.Time {
	if r.ReceivedAt.IsZero() {
		return r.CreatedAt
	}
	return r.ReceivedAt
}
