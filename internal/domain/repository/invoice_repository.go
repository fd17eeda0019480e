package repository

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice con sus líneas.
// Create devuelve domain.ErrConflict si el número ya existe.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	// Update reemplaza cabecera y líneas.
	Update(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context) ([]*entity.Invoice, error)
}
