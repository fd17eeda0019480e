package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// Store almacenamiento en memoria con un único mutex para todo el estado.
// Run serializa las transacciones y restaura el estado si fn falla.
type Store struct {
	mu sync.Mutex

	items       map[string]*entity.Item
	adjustments []*entity.StockAdjustment
	receipts    []*entity.Receipt
	receiptSeq  int64
	invoices    map[string]*entity.Invoice
	users       map[string]*entity.User
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		items:    make(map[string]*entity.Item),
		invoices: make(map[string]*entity.Invoice),
		users:    make(map[string]*entity.User),
	}
}

// Items repositorio de artículos fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Adjustments repositorio de la bitácora de ajustes fuera de transacción.
func (s *Store) Adjustments() *AdjustmentRepo { return &AdjustmentRepo{s: s} }

// Receipts repositorio de recepciones fuera de transacción.
func (s *Store) Receipts() *ReceiptRepo { return &ReceiptRepo{s: s} }

// Invoices repositorio de facturas fuera de transacción.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Run ejecuta fn con repos que asumen el lock ya tomado.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	err := fn(repository.TxRepos{
		Items:       &ItemRepo{s: s, inTx: true},
		Adjustments: &AdjustmentRepo{s: s, inTx: true},
		Receipts:    &ReceiptRepo{s: s, inTx: true},
		Invoices:    &InvoiceRepo{s: s, inTx: true},
	})
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// guard toma el lock salvo que el repo ya esté dentro de Run.
func (s *Store) guard(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	items       map[string]*entity.Item
	adjustments int
	receipts    int
	receiptSeq  int64
	invoices    map[string]*entity.Invoice
}

// snapshot copia lo que una transacción puede modificar; ajustes y recepciones son solo inserción.
func (s *Store) snapshot() snapshot {
	items := make(map[string]*entity.Item, len(s.items))
	for k, v := range s.items {
		items[k] = copyItem(v)
	}
	invoices := make(map[string]*entity.Invoice, len(s.invoices))
	for k, v := range s.invoices {
		invoices[k] = copyInvoice(v)
	}
	return snapshot{
		items:       items,
		adjustments: len(s.adjustments),
		receipts:    len(s.receipts),
		receiptSeq:  s.receiptSeq,
		invoices:    invoices,
	}
}

func (s *Store) restore(snap snapshot) {
	s.items = snap.items
	s.adjustments = s.adjustments[:snap.adjustments]
	s.receipts = s.receipts[:snap.receipts]
	s.receiptSeq = snap.receiptSeq
	s.invoices = snap.invoices
}

func copyItem(i *entity.Item) *entity.Item {
	c := *i
	if i.ExpirationDate != nil {
		t := *i.ExpirationDate
		c.ExpirationDate = &t
	}
	return &c
}

func copyInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.Lines = append([]entity.InvoiceLine(nil), inv.Lines...)
	return &c
}
