package pos

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/tienda-pos/internal/application/billing"
	"github.com/jhoicas/tienda-pos/internal/domain"
	domainbilling "github.com/jhoicas/tienda-pos/internal/domain/billing"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/metrics"
)

// State estado de un borrador de venta.
type State int

const (
	StateEmpty State = iota
	StateBuilding
	StateCommitted
	StateVoided
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateBuilding:
		return "BUILDING"
	case StateCommitted:
		return "COMMITTED"
	case StateVoided:
		return "VOIDED"
	}
	return "UNKNOWN"
}

// Terminal indica COMMITTED o VOIDED.
func (s State) Terminal() bool { return s == StateCommitted || s == StateVoided }

// VoidFailure línea cuya devolución de stock falló.
type VoidFailure struct {
	ItemID   string
	Name     string
	Quantity int
	Err      error
}

// VoidReport resultado de una anulación.
type VoidReport struct {
	Restored []entity.InvoiceLine
	Failed   []VoidFailure
}

// OK true si todas las líneas se restauraron.
func (r VoidReport) OK() bool { return len(r.Failed) == 0 }

// Draft venta en curso: EMPTY -> BUILDING -> {COMMITTED, VOIDED}.
// Seguro para uso concurrente; las operaciones sobre un mismo draft se serializan.
type Draft struct {
	c     *Coordinator
	actor string

	mu      sync.Mutex
	state   State
	lines   []entity.InvoiceLine
	number  string
	invoice *entity.Invoice
}

// Actor usuario que abrió el borrador.
func (d *Draft) Actor() string { return d.actor }

// State estado actual.
func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Lines copia de las líneas actuales.
func (d *Draft) Lines() []entity.InvoiceLine {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]entity.InvoiceLine(nil), d.lines...)
}

// Invoice factura persistida; nil hasta el commit.
func (d *Draft) Invoice() *entity.Invoice {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.invoice
}

// Totals vista previa de los totales con las tasas dadas.
func (d *Draft) Totals(r Rates) domainbilling.Totals {
	d.mu.Lock()
	defer d.mu.Unlock()
	return domainbilling.Compute(d.lines, r.Discount, r.Tax)
}

// AddLine resuelve code (SKU o ID), descuenta qty del stock (SALE) y agrega o acumula la línea.
// Si el ajuste falla el borrador no cambia.
func (d *Draft) AddLine(ctx context.Context, code string, qty int) (*entity.Item, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("cantidad debe ser > 0: %w", domain.ErrInvalidInput)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Terminal() {
		return nil, fmt.Errorf("borrador %s: %w", d.state, domain.ErrConflict)
	}

	item, err := ResolveItem(ctx, d.c.finder, code)
	if err != nil {
		return nil, err
	}
	if qty > item.Quantity {
		return nil, &domain.StockError{ItemID: item.ID, ItemName: item.Name, Available: item.Quantity, Requested: qty}
	}
	updated, err := d.c.adjuster.Adjust(ctx, item.ID, -qty, entity.ReasonSale, d.actor)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range d.lines {
		if d.lines[i].ItemID == updated.ID {
			d.lines[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		d.lines = append(d.lines, entity.InvoiceLine{
			ItemID:   updated.ID,
			Name:     updated.Name,
			SKU:      updated.SKU,
			Price:    updated.Price,
			Quantity: qty,
		})
	}
	d.state = StateBuilding
	d.c.log.Debug().Str("item_id", updated.ID).Int("quantity", qty).Int("remaining", updated.Quantity).Msg("línea agregada")
	return updated, nil
}

// Clear descarta las líneas sin tocar el stock; el borrador vuelve a EMPTY.
func (d *Draft) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Terminal() {
		return fmt.Errorf("borrador %s: %w", d.state, domain.ErrConflict)
	}
	d.lines = nil
	d.number = ""
	d.state = StateEmpty
	return nil
}

// Void devuelve al stock (VOID) cada línea de forma independiente; un fallo no detiene el resto.
// Las líneas fallidas quedan en el borrador y una nueva llamada solo reintenta esas,
// así nunca se restaura dos veces. Anular un borrador confirmado devuelve ErrConflict.
func (d *Draft) Void(ctx context.Context) (VoidReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateCommitted {
		return VoidReport{}, fmt.Errorf("borrador %s: %w", d.state, domain.ErrConflict)
	}

	var report VoidReport
	var pending []entity.InvoiceLine
	for _, l := range d.lines {
		if _, err := d.c.adjuster.Adjust(ctx, l.ItemID, l.Quantity, entity.ReasonVoid, d.actor); err != nil {
			report.Failed = append(report.Failed, VoidFailure{ItemID: l.ItemID, Name: l.Name, Quantity: l.Quantity, Err: err})
			pending = append(pending, l)
			continue
		}
		report.Restored = append(report.Restored, l)
	}
	d.lines = pending
	if d.state != StateVoided {
		metrics.Drafts.WithLabelValues("voided").Inc()
	}
	d.state = StateVoided

	if len(report.Failed) > 0 {
		metrics.VoidFailures.Add(float64(len(report.Failed)))
		for _, f := range report.Failed {
			d.c.log.Warn().Err(f.Err).Str("item_id", f.ItemID).Int("quantity", f.Quantity).Msg("no se pudo devolver la línea al stock")
		}
	}
	d.c.log.Info().Int("restored", len(report.Restored)).Int("failed", len(report.Failed)).Str("actor", d.actor).Msg("venta anulada")
	return report, nil
}

// Commit persiste la factura (ApplyStockChange=false: el stock ya se descontó al escanear).
// Un segundo Commit devuelve la misma factura sin volver a guardarla. Si el guardado falla el
// borrador sigue en BUILDING y se puede reintentar o anular. El número se conserva en todos los
// reintentos, también tras un conflicto.
func (d *Draft) Commit(ctx context.Context, cust Customer, r Rates) (*entity.Invoice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case StateCommitted:
		return d.invoice, nil
	case StateVoided:
		return nil, fmt.Errorf("borrador %s: %w", d.state, domain.ErrConflict)
	}
	if len(d.lines) == 0 {
		return nil, fmt.Errorf("la venta no tiene líneas: %w", domain.ErrInvalidInput)
	}
	if d.number == "" {
		d.number = d.c.newNumber()
	}

	inv, err := d.c.store.CreateInvoice(ctx, billing.InvoiceInput{
		Number:           d.number,
		CustomerName:     cust.Name,
		CustomerPhone:    cust.Phone,
		DiscountRate:     domainbilling.ClampRate(r.Discount),
		TaxRate:          domainbilling.ClampRate(r.Tax),
		Lines:            append([]entity.InvoiceLine(nil), d.lines...),
		CreatedBy:        d.actor,
		ApplyStockChange: false,
	})
	if err != nil {
		d.c.log.Warn().Err(err).Str("number", d.number).Msg("no se pudo guardar la factura; stock ya descontado")
		if errors.Is(err, domain.ErrConflict) {
			// el número ya existe; puede ser este mismo borrador guardado en un intento anterior
			return nil, fmt.Errorf("factura %s ya registrada: %w", d.number, err)
		}
		return nil, err
	}
	d.invoice = inv
	d.state = StateCommitted
	metrics.Drafts.WithLabelValues("committed").Inc()
	d.c.log.Info().Str("invoice_id", inv.ID).Str("number", inv.Number).Int("lines", len(inv.Lines)).Msg("venta confirmada")
	return inv, nil
}
