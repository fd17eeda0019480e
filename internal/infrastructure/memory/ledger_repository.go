package memory

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var (
	_ repository.StockAdjustmentRepository = (*AdjustmentRepo)(nil)
	_ repository.ReceiptRepository         = (*ReceiptRepo)(nil)
)

// AdjustmentRepo bitácora de ajustes en memoria.
type AdjustmentRepo struct {
	s    *Store
	inTx bool
}

func (r *AdjustmentRepo) Create(_ context.Context, adj *entity.StockAdjustment) error {
	defer r.s.guard(r.inTx)()
	c := *adj
	r.s.adjustments = append(r.s.adjustments, &c)
	return nil
}

// ListByItem recorre al revés: el último insertado es el más reciente.
func (r *AdjustmentRepo) ListByItem(_ context.Context, itemID string) ([]*entity.StockAdjustment, error) {
	defer r.s.guard(r.inTx)()
	var list []*entity.StockAdjustment
	for i := len(r.s.adjustments) - 1; i >= 0; i-- {
		if a := r.s.adjustments[i]; a.ItemID == itemID {
			c := *a
			list = append(list, &c)
		}
	}
	return list, nil
}

// ReceiptRepo ledger de recepciones en memoria.
type ReceiptRepo struct {
	s    *Store
	inTx bool
}

func (r *ReceiptRepo) Create(_ context.Context, rec *entity.Receipt) error {
	defer r.s.guard(r.inTx)()
	r.s.receiptSeq++
	rec.Seq = r.s.receiptSeq
	c := *rec
	r.s.receipts = append(r.s.receipts, &c)
	return nil
}

func (r *ReceiptRepo) List(_ context.Context) ([]*entity.Receipt, error) {
	defer r.s.guard(r.inTx)()
	list := make([]*entity.Receipt, 0, len(r.s.receipts))
	for _, rec := range r.s.receipts {
		c := *rec
		list = append(list, &c)
	}
	return list, nil
}
