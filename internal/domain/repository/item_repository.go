package repository

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// ItemFilter criterios de listado del catálogo.
type ItemFilter struct {
	SKU string // coincidencia exacta; vacío = sin filtro
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetByID/GetBySKU devuelven (nil, nil) si no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	// GetForUpdate obtiene el artículo bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// Update guarda los campos descriptivos; no toca Quantity.
	Update(ctx context.Context, item *entity.Item) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
