package entity

import "time"

// AdjustmentReason motivo de un cambio de cantidad.
type AdjustmentReason string

const (
	ReasonSale    AdjustmentReason = "SALE"
	ReasonVoid    AdjustmentReason = "VOID"
	ReasonManual  AdjustmentReason = "MANUAL"
	ReasonReceive AdjustmentReason = "RECEIVE"
)

// Valid indica si el motivo es uno de los conocidos.
func (r AdjustmentReason) Valid() bool {
	switch r {
	case ReasonSale, ReasonVoid, ReasonManual, ReasonReceive:
		return true
	}
	return false
}

// StockAdjustment bitácora de cada cambio en Item.Quantity (misma transacción que la escritura).
type StockAdjustment struct {
	ID               string
	ItemID           string
	Delta            int
	Reason           AdjustmentReason
	Actor            string
	PreviousQuantity int
	NewQuantity      int
	CreatedAt        time.Time
}
