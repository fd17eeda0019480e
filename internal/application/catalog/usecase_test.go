package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/tienda-pos/internal/application/catalog"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
)

func newUC() (*catalog.UseCase, *memory.Store) {
	st := memory.NewStore()
	return catalog.NewUseCase(st, st.Items(), nil), st
}

func ptr[T any](v T) *T { return &v }

func TestCreate_RegistraCantidadInicialComoAjuste(t *testing.T) {
	uc, st := newUC()
	ctx := context.Background()

	it, err := uc.Create(ctx, dto.CreateItemRequest{
		Name: "  Martillo ", SKU: "HER-001", Quantity: 7, Price: decimal.RequireFromString("15.50"),
	}, "admin")
	require.NoError(t, err)

	assert.Equal(t, "Martillo", it.Name)
	assert.Equal(t, 7, it.Quantity)
	assert.Equal(t, catalog.BatchNumber(time.Now().UTC(), 1), it.BatchNumber)

	adjs, _ := st.Adjustments().ListByItem(ctx, it.ID)
	require.Len(t, adjs, 1)
	assert.Equal(t, entity.ReasonManual, adjs[0].Reason)
	assert.Equal(t, 0, adjs[0].PreviousQuantity)
	assert.Equal(t, 7, adjs[0].NewQuantity)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateItemRequest{Name: "  "}, "a")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "X", Quantity: -1}, "a")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "X", Price: decimal.NewFromInt(-1)}, "a")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_SKUDuplicado(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateItemRequest{Name: "A", SKU: "111"}, "a")
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "B", SKU: "111"}, "a")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBatchNumber(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "BATCH-2025-003", catalog.BatchNumber(now, 3))
	assert.Equal(t, "BATCH-2025-1200", catalog.BatchNumber(now, 1200))
}

func TestUpdate_CantidadComoAjusteManual(t *testing.T) {
	uc, st := newUC()
	ctx := context.Background()
	it, err := uc.Create(ctx, dto.CreateItemRequest{Name: "A", Quantity: 10}, "a")
	require.NoError(t, err)

	got, err := uc.Update(ctx, it.ID, dto.UpdateItemRequest{Quantity: ptr(4), Location: ptr("Pasillo 2")}, "ana")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, "Pasillo 2", got.Location)

	adjs, _ := st.Adjustments().ListByItem(ctx, it.ID)
	require.Len(t, adjs, 2)
	assert.Equal(t, -6, adjs[0].Delta)
	assert.Equal(t, "ana", adjs[0].Actor)
}

func TestUpdate_SinCamposOInexistente(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()

	_, err := uc.Update(ctx, "x", dto.UpdateItemRequest{}, "a")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, "x", dto.UpdateItemRequest{Name: ptr("B")}, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_CantidadNegativaNoModificaNada(t *testing.T) {
	uc, st := newUC()
	ctx := context.Background()
	it, _ := uc.Create(ctx, dto.CreateItemRequest{Name: "A", Quantity: 3}, "a")

	_, err := uc.Update(ctx, it.ID, dto.UpdateItemRequest{Name: ptr("B"), Quantity: ptr(-2)}, "a")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, _ := st.Items().GetByID(ctx, it.ID)
	assert.Equal(t, "A", stored.Name)
	assert.Equal(t, 3, stored.Quantity)
}

func TestList_BusquedaSinMayusculas(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()
	_, _ = uc.Create(ctx, dto.CreateItemRequest{Name: "Café Molido", Category: "Bebidas", SKU: "CAF-1"}, "a")
	_, _ = uc.Create(ctx, dto.CreateItemRequest{Name: "Té Verde", Category: "BEBIDAS", SKU: "TE-1"}, "a")
	_, _ = uc.Create(ctx, dto.CreateItemRequest{Name: "Tornillo", Category: "Ferretería", SKU: "TOR-1"}, "a")

	got, err := uc.List(ctx, "bebidas", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = uc.List(ctx, "CAFÉ", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CAF-1", got[0].SKU)

	got, err = uc.List(ctx, "", "TOR-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tornillo", got[0].Name)
}

func TestStats(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()
	_, _ = uc.Create(ctx, dto.CreateItemRequest{Name: "A", Category: "X", Quantity: 2, MinStockLevel: 5, Price: decimal.RequireFromString("1.255")}, "a")
	_, _ = uc.Create(ctx, dto.CreateItemRequest{Name: "B", Category: "Y", Quantity: 10, MinStockLevel: 5, Price: decimal.NewFromInt(3)}, "a")
	_, _ = uc.Create(ctx, dto.CreateItemRequest{Name: "C", Category: "X", Quantity: 1}, "a")

	s, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 13, s.TotalQuantity)
	assert.Equal(t, 1, s.LowStockCount)
	assert.Equal(t, []string{"A"}, s.LowStockItems)
	assert.Equal(t, 2, s.UniqueCategoriesCount)
	assert.Equal(t, "32.51", s.TotalInventoryValue.String())
}

func TestSeedDemoItems_SoloSiVacio(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()

	n, err := uc.SeedDemoItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = uc.SeedDemoItems(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, _ := uc.List(ctx, "", "BEV-WATER-005")
	require.Len(t, list, 1)
	require.NotNil(t, list[0].ExpirationDate)
	assert.Equal(t, "BATCH", list[0].BatchNumber[:5])
}
