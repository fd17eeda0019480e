package dto

import (
	"time"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// CreateReceiptRequest cuerpo de POST /api/receipts.
type CreateReceiptRequest struct {
	ItemID     string `json:"itemId"`
	Quantity   int    `json:"quantity"`
	ReceivedBy string `json:"receivedBy"`
}

// ReceiptResponse salida de una recepción.
type ReceiptResponse struct {
	ID               string    `json:"id"`
	ItemID           string    `json:"itemId"`
	Name             string    `json:"name"`
	SKU              string    `json:"sku"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	ReceivedBy       *string   `json:"receivedBy"`
	ReceivedAt       time.Time `json:"receivedAt"`
	CreatedAt        time.Time `json:"createdAt"`
	Seq              int64     `json:"seq"`
}

// NewReceiptResponse mapea la entidad.
func NewReceiptResponse(r *entity.Receipt) ReceiptResponse {
	out := ReceiptResponse{
		ID:               r.ID,
		ItemID:           r.ItemID,
		Name:             r.ItemName,
		SKU:              r.SKU,
		Quantity:         r.Quantity,
		PreviousQuantity: r.PreviousQuantity,
		NewQuantity:      r.NewQuantity,
		ReceivedAt:       r.ReceivedAt,
		CreatedAt:        r.CreatedAt,
		Seq:              r.Seq,
	}
	if r.ReceivedBy != "" {
		by := r.ReceivedBy
		out.ReceivedBy = &by
	}
	return out
}

// ToEntity reconstruye la entidad (clientes REST).
func (r ReceiptResponse) ToEntity() *entity.Receipt {
	rec := &entity.Receipt{
		ID:               r.ID,
		ItemID:           r.ItemID,
		ItemName:         r.Name,
		SKU:              r.SKU,
		Quantity:         r.Quantity,
		PreviousQuantity: r.PreviousQuantity,
		NewQuantity:      r.NewQuantity,
		ReceivedAt:       r.ReceivedAt,
		CreatedAt:        r.CreatedAt,
		Seq:              r.Seq,
	}
	if r.ReceivedBy != nil {
		rec.ReceivedBy = *r.ReceivedBy
	}
	return rec
}

// ReceiveResponse respuesta de POST /api/receipts.
type ReceiveResponse struct {
	UpdatedItem ItemResponse    `json:"updatedItem"`
	Receipt     ReceiptResponse `json:"receipt"`
}
