package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// CreateItemRequest entrada para crear un artículo.
type CreateItemRequest struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Type           string          `json:"type"`
	Quantity       int             `json:"quantity"`
	MinStockLevel  int             `json:"minStockLevel"`
	Price          decimal.Decimal `json:"price"`
	SKU            string          `json:"sku"`
	Description    string          `json:"description"`
	Location       string          `json:"location"`
	Supplier       string          `json:"supplier"`
	ExpirationDate *Date           `json:"expirationDate"`
}

// UpdateItemRequest actualización parcial; Quantity se aplica como ajuste MANUAL.
type UpdateItemRequest struct {
	Name           *string          `json:"name"`
	Category       *string          `json:"category"`
	Type           *string          `json:"type"`
	Quantity       *int             `json:"quantity"`
	MinStockLevel  *int             `json:"minStockLevel"`
	Price          *decimal.Decimal `json:"price"`
	SKU            *string          `json:"sku"`
	Description    *string          `json:"description"`
	Location       *string          `json:"location"`
	Supplier       *string          `json:"supplier"`
	ExpirationDate *Date            `json:"expirationDate"`
}

// Empty indica que no viene ningún campo.
func (r UpdateItemRequest) Empty() bool {
	return r.Name == nil && r.Category == nil && r.Type == nil && r.Quantity == nil &&
		r.MinStockLevel == nil && r.Price == nil && r.SKU == nil && r.Description == nil &&
		r.Location == nil && r.Supplier == nil && r.ExpirationDate == nil
}

// AdjustStockRequest cuerpo de POST /api/items/:id/adjust_stock.
type AdjustStockRequest struct {
	Delta     int    `json:"delta"`
	ChangedBy string `json:"changedBy"`
	Reason    string `json:"reason"` // opcional; por defecto MANUAL
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Type           string          `json:"type"`
	SKU            string          `json:"sku"`
	Quantity       int             `json:"quantity"`
	MinStockLevel  int             `json:"minStockLevel"`
	Price          decimal.Decimal `json:"price"`
	Location       string          `json:"location"`
	Supplier       string          `json:"supplier"`
	BatchNumber    string          `json:"batchNumber"`
	ExpirationDate *Date           `json:"expirationDate"`
	Description    string          `json:"description"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewItemResponse mapea la entidad a su forma JSON.
func NewItemResponse(it *entity.Item) ItemResponse {
	return ItemResponse{
		ID:             it.ID,
		Name:           it.Name,
		Category:       it.Category,
		Type:           it.Type,
		SKU:            it.SKU,
		Quantity:       it.Quantity,
		MinStockLevel:  it.MinStockLevel,
		Price:          it.Price,
		Location:       it.Location,
		Supplier:       it.Supplier,
		BatchNumber:    it.BatchNumber,
		ExpirationDate: DateFromTime(it.ExpirationDate),
		Description:    it.Description,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}

// ToEntity reconstruye la entidad (clientes REST).
func (r ItemResponse) ToEntity() *entity.Item {
	return &entity.Item{
		ID:             r.ID,
		Name:           r.Name,
		Category:       r.Category,
		Type:           r.Type,
		SKU:            r.SKU,
		Quantity:       r.Quantity,
		MinStockLevel:  r.MinStockLevel,
		Price:          r.Price,
		Location:       r.Location,
		Supplier:       r.Supplier,
		BatchNumber:    r.BatchNumber,
		ExpirationDate: r.ExpirationDate.Ptr(),
		Description:    r.Description,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// StockAdjustmentResponse entrada de la bitácora de ajustes.
type StockAdjustmentResponse struct {
	ID               string    `json:"id"`
	ItemID           string    `json:"itemId"`
	Delta            int       `json:"delta"`
	Reason           string    `json:"reason"`
	Actor            string    `json:"actor"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewStockAdjustmentResponse mapea la entidad.
func NewStockAdjustmentResponse(a *entity.StockAdjustment) StockAdjustmentResponse {
	return StockAdjustmentResponse{
		ID:               a.ID,
		ItemID:           a.ItemID,
		Delta:            a.Delta,
		Reason:           string(a.Reason),
		Actor:            a.Actor,
		PreviousQuantity: a.PreviousQuantity,
		NewQuantity:      a.NewQuantity,
		CreatedAt:        a.CreatedAt,
	}
}

// StatsResponse tarjetas del tablero.
type StatsResponse struct {
	TotalQuantity         int             `json:"totalQuantity"`
	LowStockCount         int             `json:"lowStockCount"`
	LowStockItems         []string        `json:"lowStockItems"`
	TotalInventoryValue   decimal.Decimal `json:"totalInventoryValue"`
	UniqueCategoriesCount int             `json:"uniqueCategoriesCount"`
}
