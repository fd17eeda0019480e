package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-pos/internal/domain/billing"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// InvoiceLineDTO línea de factura en JSON.
type InvoiceLineDTO struct {
	ItemID   string          `json:"itemId,omitempty"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// CreateInvoiceRequest cuerpo de POST /api/invoices.
type CreateInvoiceRequest struct {
	Number           string           `json:"number"`
	PrintedAt        *time.Time       `json:"printedAt"`
	CustomerName     string           `json:"customerName"`
	CustomerPhone    string           `json:"customerPhone"`
	TaxRate          decimal.Decimal  `json:"taxRate"`
	DiscountRate     decimal.Decimal  `json:"discountRate"`
	Lines            []InvoiceLineDTO `json:"lines"`
	ApplyStockChange bool             `json:"applyStockChange"`
	CreatedBy        string           `json:"createdBy"`
}

// UpdateInvoiceRequest edición parcial; nunca modifica stock.
type UpdateInvoiceRequest struct {
	Number        *string           `json:"number"`
	PrintedAt     *time.Time        `json:"printedAt"`
	CustomerName  *string           `json:"customerName"`
	CustomerPhone *string           `json:"customerPhone"`
	TaxRate       *decimal.Decimal  `json:"taxRate"`
	DiscountRate  *decimal.Decimal  `json:"discountRate"`
	Lines         *[]InvoiceLineDTO `json:"lines"`
}

// Empty indica que no viene ningún campo.
func (r UpdateInvoiceRequest) Empty() bool {
	return r.Number == nil && r.PrintedAt == nil && r.CustomerName == nil && r.CustomerPhone == nil &&
		r.TaxRate == nil && r.DiscountRate == nil && r.Lines == nil
}

// TotalsDTO totales recalculados, redondeados a 2 decimales.
type TotalsDTO struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountRate   decimal.Decimal `json:"discountRate"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
}

// NewTotalsDTO mapea los totales ya redondeados.
func NewTotalsDTO(t billing.Totals) TotalsDTO {
	r := t.Rounded()
	return TotalsDTO{
		Subtotal:       r.Subtotal,
		DiscountRate:   r.DiscountRate,
		DiscountAmount: r.DiscountAmount,
		TaxRate:        r.TaxRate,
		TaxAmount:      r.TaxAmount,
		Total:          r.Total,
	}
}

// InvoiceResponse factura con totales derivados de sus líneas.
type InvoiceResponse struct {
	ID            string           `json:"id"`
	Number        string           `json:"number"`
	PrintedAt     time.Time        `json:"printedAt"`
	CustomerName  string           `json:"customerName"`
	CustomerPhone string           `json:"customerPhone"`
	TaxRate       decimal.Decimal  `json:"taxRate"`
	DiscountRate  decimal.Decimal  `json:"discountRate"`
	Lines         []InvoiceLineDTO `json:"lines"`
	CreatedBy     string           `json:"createdBy"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Totals        TotalsDTO        `json:"totals"`
}

// NewInvoiceResponse mapea la entidad y recalcula los totales.
func NewInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		PrintedAt:     inv.PrintedAt,
		CustomerName:  inv.CustomerName,
		CustomerPhone: inv.CustomerPhone,
		TaxRate:       inv.TaxRate,
		DiscountRate:  inv.DiscountRate,
		Lines:         LinesToDTO(inv.Lines),
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Totals:        NewTotalsDTO(billing.Compute(inv.Lines, inv.DiscountRate, inv.TaxRate)),
	}
}

// ToEntity reconstruye la entidad (clientes REST); los totales se descartan.
func (r InvoiceResponse) ToEntity() *entity.Invoice {
	return &entity.Invoice{
		ID:            r.ID,
		Number:        r.Number,
		PrintedAt:     r.PrintedAt,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		DiscountRate:  r.DiscountRate,
		TaxRate:       r.TaxRate,
		Lines:         LinesFromDTO(r.Lines),
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// LinesToDTO convierte líneas de dominio a JSON.
func LinesToDTO(lines []entity.InvoiceLine) []InvoiceLineDTO {
	out := make([]InvoiceLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, InvoiceLineDTO{ItemID: l.ItemID, Name: l.Name, SKU: l.SKU, Price: l.Price, Quantity: l.Quantity})
	}
	return out
}

// LinesFromDTO convierte líneas JSON a dominio.
func LinesFromDTO(lines []InvoiceLineDTO) []entity.InvoiceLine {
	out := make([]entity.InvoiceLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, entity.InvoiceLine{ItemID: l.ItemID, Name: l.Name, SKU: l.SKU, Price: l.Price, Quantity: l.Quantity})
	}
	return out
}
