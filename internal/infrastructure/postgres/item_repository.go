package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, name, category, type, sku, quantity, min_stock_level, price,
	location, supplier, batch_number, expiration_date, description, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var sku *string
	err := row.Scan(
		&it.ID, &it.Name, &it.Category, &it.Type, &sku, &it.Quantity, &it.MinStockLevel, &it.Price,
		&it.Location, &it.Supplier, &it.BatchNumber, &it.ExpirationDate, &it.Description,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.SKU = emptyIfNull(sku)
	return &it, nil
}

// Create inserta el artículo con su cantidad inicial.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Name, it.Category, it.Type, nullIfEmpty(it.SKU), it.Quantity, it.MinStockLevel, it.Price,
		it.Location, it.Supplier, it.BatchNumber, it.ExpirationDate, it.Description,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sku ya registrado: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID. Devuelve nil, nil si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetBySKU búsqueda exacta por código de barras.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	if sku == "" {
		return nil, nil
	}
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE sku = $1`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by sku: %w", err)
	}
	return it, nil
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE). Requiere tx.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

func (r *ItemRepo) getOne(ctx context.Context, query, id string) (*entity.Item, error) {
	if !validID(id) {
		return nil, nil
	}
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Update actualiza los campos descriptivos. La cantidad solo cambia vía UpdateQuantity.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items
		SET name = $2, category = $3, type = $4, sku = $5, min_stock_level = $6, price = $7,
		    location = $8, supplier = $9, batch_number = $10, expiration_date = $11,
		    description = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		it.ID, it.Name, it.Category, it.Type, nullIfEmpty(it.SKU), it.MinStockLevel, it.Price,
		it.Location, it.Supplier, it.BatchNumber, it.ExpirationDate, it.Description, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sku ya registrado: %w", domain.ErrConflict)
		}
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity escribe la nueva cantidad; el CHECK de la tabla impide negativos.
func (r *ItemRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE items SET quantity = $2, updated_at = $3 WHERE id = $1`,
		id, quantity, time.Now().UTC(),
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("cantidad negativa: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista artículos ordenados por nombre; filtro opcional por SKU exacto.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var args []any
	if filter.SKU != "" {
		query += ` WHERE sku = $1`
		args = append(args, filter.SKU)
	}
	query += ` ORDER BY name, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *ItemRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// Delete elimina el artículo; la bitácora de ajustes cae en cascada, las recepciones se conservan.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
