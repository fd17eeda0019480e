package receiving_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/tienda-pos/internal/application/receiving"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
)

func setup(t *testing.T, qty int) (*receiving.UseCase, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	require.NoError(t, st.Items().Create(context.Background(),
		&entity.Item{ID: "item-1", Name: "Cable HDMI", SKU: "7701", Quantity: qty}))
	return receiving.NewUseCase(st, st.Receipts(), nil), st
}

func TestRecord_SumaYRegistra(t *testing.T) {
	uc, st := setup(t, 10)
	ctx := context.Background()

	rec, item, err := uc.Record(ctx, receiving.ReceiveInput{ItemID: "item-1", Quantity: 5, ReceivedBy: "bodega"})
	require.NoError(t, err)

	assert.Equal(t, 10, rec.PreviousQuantity)
	assert.Equal(t, 15, rec.NewQuantity)
	assert.Equal(t, 5, rec.Quantity)
	assert.Equal(t, "Cable HDMI", rec.ItemName)
	assert.Equal(t, "7701", rec.SKU)
	assert.Equal(t, 15, item.Quantity)

	stored, _ := st.Items().GetByID(ctx, "item-1")
	assert.Equal(t, 15, stored.Quantity)

	adjs, _ := st.Adjustments().ListByItem(ctx, "item-1")
	require.Len(t, adjs, 1)
	assert.Equal(t, entity.ReasonReceive, adjs[0].Reason)
}

func TestRecord_CantidadInvalida(t *testing.T) {
	uc, _ := setup(t, 10)

	_, _, err := uc.Record(context.Background(), receiving.ReceiveInput{ItemID: "item-1", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = uc.Record(context.Background(), receiving.ReceiveInput{ItemID: "", Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecord_ArticuloInexistenteNoDejaRecibo(t *testing.T) {
	uc, _ := setup(t, 10)
	ctx := context.Background()

	_, _, err := uc.Record(ctx, receiving.ReceiveInput{ItemID: "nada", Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_MasRecientePrimero(t *testing.T) {
	uc, _ := setup(t, 0)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	_, _, err := uc.Record(ctx, receiving.ReceiveInput{ItemID: "item-1", Quantity: 1, ReceivedAt: base})
	require.NoError(t, err)
	_, _, err = uc.Record(ctx, receiving.ReceiveInput{ItemID: "item-1", Quantity: 2, ReceivedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	_, _, err = uc.Record(ctx, receiving.ReceiveInput{ItemID: "item-1", Quantity: 3, ReceivedAt: base})
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 2, list[0].Quantity)
	assert.Equal(t, 3, list[1].Quantity, "empate: la inserción posterior primero")
	assert.Equal(t, 1, list[2].Quantity)
}

func TestSortNewestFirst_IndependienteDelOrdenDeEntrada(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func() []*entity.Receipt {
		return []*entity.Receipt{
			{ID: "a", Seq: 1, ReceivedAt: base},
			{ID: "b", Seq: 2, ReceivedAt: base.Add(time.Minute)},
			{ID: "c", Seq: 3, ReceivedAt: base},
			{ID: "d", Seq: 4, CreatedAt: base.Add(2 * time.Minute)},
		}
	}
	want := []string{"d", "b", "c", "a"}

	for i := 0; i < 10; i++ {
		list := mk()
		rand.New(rand.NewSource(int64(i))).Shuffle(len(list), func(a, b int) { list[a], list[b] = list[b], list[a] })
		receiving.SortNewestFirst(list)

		got := make([]string, len(list))
		for k, r := range list {
			got[k] = r.ID
		}
		assert.Equal(t, want, got)
	}
}
