package pos

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/application/billing"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// ItemFinder búsqueda de artículos. Ambos métodos devuelven (nil, nil) si no existe.
type ItemFinder interface {
	FindBySKU(ctx context.Context, sku string) (*entity.Item, error)
	GetByID(ctx context.Context, id string) (*entity.Item, error)
}

// StockAdjuster ajuste atómico de cantidad; devuelve el artículo actualizado.
type StockAdjuster interface {
	Adjust(ctx context.Context, itemID string, delta int, reason entity.AdjustmentReason, actor string) (*entity.Item, error)
}

// InvoiceStore persistencia de la factura final. El POS siempre envía ApplyStockChange=false.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, in billing.InvoiceInput) (*entity.Invoice, error)
}
