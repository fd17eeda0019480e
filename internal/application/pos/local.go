package pos

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/application/billing"
	"github.com/jhoicas/tienda-pos/internal/application/stock"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// Adaptadores en proceso: el servidor HTTP los usa para los borradores expuestos en /api/pos.
// El POS de terminal usa en su lugar el cliente HTTP (infrastructure/apiclient).

// LocalItems ItemFinder sobre el repositorio de artículos.
type LocalItems struct{ Items repository.ItemRepository }

func (l LocalItems) FindBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return l.Items.GetBySKU(ctx, sku)
}

func (l LocalItems) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return l.Items.GetByID(ctx, id)
}

// LocalStock StockAdjuster sobre el caso de uso de stock.
type LocalStock struct{ Stock *stock.UseCase }

func (l LocalStock) Adjust(ctx context.Context, itemID string, delta int, reason entity.AdjustmentReason, actor string) (*entity.Item, error) {
	return l.Stock.Adjust(ctx, stock.AdjustInput{ItemID: itemID, Delta: delta, Reason: reason, Actor: actor})
}

// LocalInvoices InvoiceStore sobre el caso de uso de facturación.
type LocalInvoices struct{ Billing *billing.UseCase }

func (l LocalInvoices) CreateInvoice(ctx context.Context, in billing.InvoiceInput) (*entity.Invoice, error) {
	return l.Billing.Create(ctx, in)
}

var (
	_ ItemFinder    = LocalItems{}
	_ StockAdjuster = LocalStock{}
	_ InvoiceStore  = LocalInvoices{}
)
