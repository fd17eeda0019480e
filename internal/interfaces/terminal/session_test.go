package terminal_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/tienda-pos/internal/application/billing"
	"github.com/jhoicas/tienda-pos/internal/application/pos"
	"github.com/jhoicas/tienda-pos/internal/application/receiving"
	"github.com/jhoicas/tienda-pos/internal/application/stock"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-pos/internal/interfaces/terminal"
)

type localReceiver struct{ uc *receiving.UseCase }

func (l localReceiver) Receive(ctx context.Context, itemID string, qty int, by string) (*entity.Receipt, *entity.Item, error) {
	return l.uc.Record(ctx, receiving.ReceiveInput{ItemID: itemID, Quantity: qty, ReceivedBy: by})
}

func (l localReceiver) ListReceipts(ctx context.Context) ([]*entity.Receipt, error) {
	return l.uc.List(ctx)
}

func run(t *testing.T, script string) (string, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, st.Items().Create(ctx, &entity.Item{ID: "it-1", Name: "Aceite", SKU: "SKU123", Quantity: 3, Price: decimal.NewFromInt(10)}))

	su := stock.NewUseCase(st, st.Adjustments(), nil)
	finder := pos.LocalItems{Items: st.Items()}
	coord := pos.NewCoordinator(finder, pos.LocalStock{Stock: su},
		pos.LocalInvoices{Billing: billing.NewUseCase(st, st.Invoices(), nil, billing.ShopInfo{}, nil)}, nil)
	rcv := localReceiver{uc: receiving.NewUseCase(st, st.Receipts(), nil)}

	var out bytes.Buffer
	s := terminal.NewSession(coord, finder, rcv, "caja1", pos.Rates{}, strings.NewReader(script), &out)
	require.NoError(t, s.Run(ctx))
	return out.String(), st
}

func qty(t *testing.T, st *memory.Store) int {
	t.Helper()
	it, err := st.Items().GetByID(context.Background(), "it-1")
	require.NoError(t, err)
	return it.Quantity
}

func TestSession_VentaCompleta(t *testing.T) {
	out, st := run(t, "add SKU123 2\nlines\ntotal 10 8\ncommit 10 8 Ana Pérez\nquit\n")

	assert.Contains(t, out, "+ 2 x Aceite  (quedan 1)")
	assert.Contains(t, out, "total 19.44")
	assert.Contains(t, out, "factura INV-")
	assert.Equal(t, 1, qty(t, st))

	list, err := st.Invoices().List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana Pérez", list[0].CustomerName)
}

func TestSession_StockInsuficienteYVoid(t *testing.T) {
	out, st := run(t, "add SKU123 3\nadd SKU123 1\nvoid\n")

	assert.Contains(t, out, "stock insuficiente para Aceite (disponible 0)")
	assert.Contains(t, out, "devuelto 3 x Aceite")
	assert.Contains(t, out, "venta anulada")
	assert.Equal(t, 3, qty(t, st))
}

func TestSession_RecepcionYAvisoAlSalir(t *testing.T) {
	out, st := run(t, "receive SKU123 5\nreceipts\nadd SKU123 1\nnew\nfoo\n")

	assert.Contains(t, out, "recibido 5 x Aceite: 3 -> 8")
	assert.Contains(t, out, "hay una venta en curso")
	assert.Contains(t, out, `comando "foo" desconocido`)
	assert.Contains(t, out, "aviso: la venta abierta queda con stock descontado")
	assert.Equal(t, 7, qty(t, st))
}
