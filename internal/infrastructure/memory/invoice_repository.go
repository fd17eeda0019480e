package memory

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas en memoria; el número es único.
type InvoiceRepo struct {
	s    *Store
	inTx bool
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	defer r.s.guard(r.inTx)()
	for _, other := range r.s.invoices {
		if other.Number == inv.Number || other.ID == inv.ID {
			return domain.ErrConflict
		}
	}
	r.s.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	defer r.s.guard(r.inTx)()
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.invoices {
		if other.ID != inv.ID && other.Number == inv.Number {
			return domain.ErrConflict
		}
	}
	r.s.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	defer r.s.guard(r.inTx)()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return copyInvoice(inv), nil
}

// List sin orden garantizado; el caso de uso ordena.
func (r *InvoiceRepo) List(_ context.Context) ([]*entity.Invoice, error) {
	defer r.s.guard(r.inTx)()
	list := make([]*entity.Invoice, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		list = append(list, copyInvoice(inv))
	}
	return list, nil
}
