package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

// demoItems catálogo inicial para tiendas nuevas.
var demoItems = []dto.CreateItemRequest{
	{Name: "Wireless Mouse", Category: "Electronics", Type: "Finished Good", Quantity: 150, MinStockLevel: 50,
		Price: decimal.RequireFromString("29.99"), SKU: "ELEC-MOUSE-001",
		Description: "Ergonomic wireless mouse with USB receiver", Location: "Warehouse A - Aisle 3", Supplier: "TechSupply Co."},
	{Name: "Office Desk Chair", Category: "Furniture", Type: "Finished Good", Quantity: 25, MinStockLevel: 15,
		Price: decimal.RequireFromString("249.99"), SKU: "FURN-CHAIR-002",
		Description: "Adjustable office chair with lumbar support", Location: "Warehouse B - Section 2", Supplier: "FurniturePro Inc."},
	{Name: "Printer Paper (Ream)", Category: "Office Supplies", Type: "Consumable", Quantity: 200, MinStockLevel: 100,
		Price: decimal.RequireFromString("5.49"), SKU: "OFFICE-PAPER-003",
		Description: "500-sheet pack of standard A4 printer paper", Location: "Warehouse A - Aisle 1", Supplier: "OfficeWorld Distributors"},
	{Name: "USB-C Cable", Category: "Electronics", Type: "Component", Quantity: 80, MinStockLevel: 40,
		Price: decimal.RequireFromString("9.99"), SKU: "ELEC-CABLE-004",
		Description: "1.5m USB-C to USB-C charging cable", Location: "Warehouse A - Aisle 4", Supplier: "TechSupply Co."},
	{Name: "Bottled Water (Case)", Category: "Beverages", Type: "Consumable", Quantity: 60, MinStockLevel: 30,
		Price: decimal.RequireFromString("12.99"), SKU: "BEV-WATER-005",
		Description: "24-pack of bottled drinking water", Location: "Warehouse C - Cold Storage", Supplier: "FreshDrinks Ltd.",
		ExpirationDate: &dto.Date{Time: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)}},
}

// SeedDemoItems inserta el catálogo demo si no hay artículos. Devuelve cuántos creó.
func (uc *UseCase) SeedDemoItems(ctx context.Context) (int, error) {
	n, err := uc.items.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, in := range demoItems {
		if _, err := uc.Create(ctx, in, "seed"); err != nil {
			return 0, err
		}
	}
	uc.log.Info().Int("items", len(demoItems)).Msg("catálogo demo sembrado")
	return len(demoItems), nil
}
