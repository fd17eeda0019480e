package dto

import (
	"github.com/shopspring/decimal"
)

// AddLineRequest cuerpo de POST /api/pos/drafts/:id/lines. Code es SKU o ID.
type AddLineRequest struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// CommitDraftRequest cuerpo de POST /api/pos/drafts/:id/commit.
type CommitDraftRequest struct {
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	DiscountRate  decimal.Decimal `json:"discountRate"`
	TaxRate       decimal.Decimal `json:"taxRate"`
}

// DraftResponse estado de un borrador POS.
type DraftResponse struct {
	ID       string           `json:"id"`
	State    string           `json:"state"`
	Actor    string           `json:"actor"`
	Lines    []InvoiceLineDTO `json:"lines"`
	Subtotal decimal.Decimal  `json:"subtotal"`
	Invoice  *InvoiceResponse `json:"invoice,omitempty"`
}

// VoidFailureDTO línea que no pudo devolverse al stock.
type VoidFailureDTO struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Error    string `json:"error"`
}

// VoidResponse resultado de anular un borrador.
type VoidResponse struct {
	Restored []InvoiceLineDTO `json:"restored"`
	Failed   []VoidFailureDTO `json:"failed"`
	Draft    DraftResponse    `json:"draft"`
}
