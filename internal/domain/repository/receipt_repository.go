package repository

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// ReceiptRepository ledger de recepciones (solo inserción).
type ReceiptRepository interface {
	// Create persiste la recepción y asigna Seq.
	Create(ctx context.Context, r *entity.Receipt) error
	List(ctx context.Context) ([]*entity.Receipt, error)
}
