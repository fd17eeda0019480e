package billing

import (
	"context"

	domainbilling "github.com/jhoicas/tienda-pos/internal/domain/billing"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// ShopInfo datos de la tienda impresos en la cabecera del PDF.
type ShopInfo struct {
	Name    string
	Address string
	Phone   string
}

// InvoicePDFGenerator puerto para generar la representación impresa de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, shop ShopInfo, inv *entity.Invoice, totals domainbilling.Totals) ([]byte, error)
}
