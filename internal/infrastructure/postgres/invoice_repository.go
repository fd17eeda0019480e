package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Create/Update escriben cabecera y líneas; con pool (sin tx) no son atómicos, usar dentro de TxRunner.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera y sus líneas.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, number, printed_at, customer_name, customer_phone, discount_rate, tax_rate, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Number, inv.PrintedAt, inv.CustomerName, inv.CustomerPhone,
		inv.DiscountRate, inv.TaxRate, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de factura %q ya existe: %w", inv.Number, domain.ErrConflict)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return r.insertLines(ctx, inv)
}

func (r *InvoiceRepo) insertLines(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoice_lines (invoice_id, position, item_id, name, sku, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, l := range inv.Lines {
		if _, err := r.q.Exec(ctx, query, inv.ID, i, nullIfEmpty(l.ItemID), l.Name, l.SKU, l.Price, l.Quantity); err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

// Update reemplaza cabecera editable y líneas.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET number = $2, printed_at = $3, customer_name = $4, customer_phone = $5,
		    discount_rate = $6, tax_rate = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.Number, inv.PrintedAt, inv.CustomerName, inv.CustomerPhone,
		inv.DiscountRate, inv.TaxRate, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de factura %q ya existe: %w", inv.Number, domain.ErrConflict)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, inv.ID); err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	return r.insertLines(ctx, inv)
}

const invoiceColumns = `id, number, printed_at, customer_name, customer_phone, discount_rate, tax_rate, created_by, created_at, updated_at`

// GetByID obtiene la factura con sus líneas. Devuelve nil, nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if !validID(id) {
		return nil, nil
	}
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id).Scan(
		&inv.ID, &inv.Number, &inv.PrintedAt, &inv.CustomerName, &inv.CustomerPhone,
		&inv.DiscountRate, &inv.TaxRate, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	lines, err := r.linesByInvoice(ctx, []string{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Lines = lines[inv.ID]
	return &inv, nil
}

// List devuelve las facturas con sus líneas, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY printed_at DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	var list []*entity.Invoice
	var ids []string
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.PrintedAt, &inv.CustomerName, &inv.CustomerPhone,
			&inv.DiscountRate, &inv.TaxRate, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
		ids = append(ids, inv.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	lines, err := r.linesByInvoice(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		inv.Lines = lines[inv.ID]
	}
	return list, nil
}

func (r *InvoiceRepo) linesByInvoice(ctx context.Context, ids []string) (map[string][]entity.InvoiceLine, error) {
	query := `
		SELECT invoice_id, item_id, name, sku, price, quantity
		FROM invoice_lines WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position`
	uids := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invoice id %q: %w", id, err)
		}
		uids = append(uids, u)
	}
	rows, err := r.q.Query(ctx, query, uids)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.InvoiceLine, len(ids))
	for rows.Next() {
		var invoiceID string
		var itemID *string
		var l entity.InvoiceLine
		if err := rows.Scan(&invoiceID, &itemID, &l.Name, &l.SKU, &l.Price, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		l.ItemID = emptyIfNull(itemID)
		out[invoiceID] = append(out[invoiceID], l)
	}
	return out, rows.Err()
}
