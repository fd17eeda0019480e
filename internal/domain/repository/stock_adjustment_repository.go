package repository

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// StockAdjustmentRepository bitácora de ajustes de cantidad (solo inserción).
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.StockAdjustment) error
	// ListByItem devuelve los ajustes del artículo, más reciente primero.
	ListByItem(ctx context.Context, itemID string) ([]*entity.StockAdjustment, error)
}
