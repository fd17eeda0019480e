package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var (
	_ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)
	_ repository.ReceiptRepository         = (*ReceiptRepo)(nil)
)

// StockAdjustmentRepo bitácora de ajustes (usable con pool o tx).
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

func (r *StockAdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_adjustments (id, item_id, delta, reason, actor, previous_quantity, new_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ItemID, a.Delta, string(a.Reason), a.Actor, a.PreviousQuantity, a.NewQuantity, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock adjustment: %w", err)
	}
	return nil
}

func (r *StockAdjustmentRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.StockAdjustment, error) {
	if !validID(itemID) {
		return nil, nil
	}
	query := `
		SELECT id, item_id, delta, reason, actor, previous_quantity, new_quantity, created_at
		FROM stock_adjustments WHERE item_id = $1
		ORDER BY created_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockAdjustment
	for rows.Next() {
		var a entity.StockAdjustment
		var reason string
		if err := rows.Scan(&a.ID, &a.ItemID, &a.Delta, &reason, &a.Actor, &a.PreviousQuantity, &a.NewQuantity, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock adjustment: %w", err)
		}
		a.Reason = entity.AdjustmentReason(reason)
		list = append(list, &a)
	}
	return list, rows.Err()
}

// ReceiptRepo ledger de recepciones (usable con pool o tx).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Create inserta la recepción; seq lo asigna la secuencia BIGSERIAL.
func (r *ReceiptRepo) Create(ctx context.Context, rec *entity.Receipt) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `
		INSERT INTO receipts (id, item_id, item_name, sku, quantity, previous_quantity, new_quantity, received_by, received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		rec.ID, rec.ItemID, rec.ItemName, rec.SKU, rec.Quantity, rec.PreviousQuantity, rec.NewQuantity,
		nullIfEmpty(rec.ReceivedBy), rec.ReceivedAt, rec.CreatedAt,
	).Scan(&rec.Seq)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// List devuelve todas las recepciones; el orden final lo fija receiving.SortNewestFirst.
func (r *ReceiptRepo) List(ctx context.Context) ([]*entity.Receipt, error) {
	query := `
		SELECT id, item_id, item_name, sku, quantity, previous_quantity, new_quantity, received_by, received_at, created_at, seq
		FROM receipts
		ORDER BY received_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Receipt
	for rows.Next() {
		var rec entity.Receipt
		var by *string
		if err := rows.Scan(&rec.ID, &rec.ItemID, &rec.ItemName, &rec.SKU, &rec.Quantity, &rec.PreviousQuantity,
			&rec.NewQuantity, &by, &rec.ReceivedAt, &rec.CreatedAt, &rec.Seq); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		rec.ReceivedBy = emptyIfNull(by)
		list = append(list, &rec)
	}
	return list, rows.Err()
}
