package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/stock"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// UseCase CRUD del catálogo. La cantidad nunca se escribe directo salvo al crear:
// las ediciones de cantidad pasan por el ajuste MANUAL.
type UseCase struct {
	txRunner repository.TxRunner
	items    repository.ItemRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner repository.TxRunner, items repository.ItemRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner: txRunner,
		items:    items,
		log:      log.Component("catalog"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List artículos; search filtra sin distinguir mayúsculas por nombre, sku o categoría; sku es exacto.
func (uc *UseCase) List(ctx context.Context, search, sku string) ([]*entity.Item, error) {
	list, err := uc.items.List(ctx, repository.ItemFilter{SKU: strings.TrimSpace(sku)})
	if err != nil {
		return nil, err
	}
	search = strings.TrimSpace(search)
	if search == "" {
		return list, nil
	}
	// cases.Caser tiene estado: uno por llamada.
	fold := cases.Fold()
	needle := fold.String(search)
	contains := func(field string) bool {
		return field != "" && strings.Contains(fold.String(field), needle)
	}
	out := list[:0]
	for _, it := range list {
		if contains(it.Name) || contains(it.SKU) || contains(it.Category) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Get obtiene un artículo; ErrNotFound si no existe.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Item, error) {
	it, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("artículo %s: %w", id, domain.ErrNotFound)
	}
	return it, nil
}

// Create crea el artículo con su cantidad inicial y la registra como ajuste MANUAL desde 0.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateItemRequest, actor string) (*entity.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Quantity < 0 || in.MinStockLevel < 0 || in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	item := &entity.Item{
		ID:             uuid.New().String(),
		Name:           name,
		Category:       in.Category,
		Type:           in.Type,
		SKU:            strings.TrimSpace(in.SKU),
		MinStockLevel:  in.MinStockLevel,
		Price:          in.Price,
		Location:       in.Location,
		Supplier:       in.Supplier,
		ExpirationDate: in.ExpirationDate.Ptr(),
		Description:    in.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		count, err := repos.Items.Count(ctx)
		if err != nil {
			return err
		}
		item.BatchNumber = BatchNumber(now, count+1)
		if item.SKU != "" {
			existing, err := repos.Items.GetBySKU(ctx, item.SKU)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("sku %q ya registrado: %w", item.SKU, domain.ErrConflict)
			}
		}
		if err := repos.Items.Create(ctx, item); err != nil {
			return err
		}
		if in.Quantity == 0 {
			return nil
		}
		created, _, err := stock.AdjustInTx(ctx, repos, stock.AdjustInput{
			ItemID: item.ID,
			Delta:  in.Quantity,
			Reason: entity.ReasonManual,
			Actor:  actor,
		}, now)
		if err != nil {
			return err
		}
		item.Quantity = created.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", item.ID).Str("sku", item.SKU).Int("quantity", item.Quantity).Msg("artículo creado")
	return item, nil
}

// Update actualización parcial. Si viene quantity se aplica como ajuste MANUAL en la misma transacción.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest, actor string) (*entity.Item, error) {
	if in.Empty() {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Item
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		item, err := repos.Items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("artículo %s: %w", id, domain.ErrNotFound)
		}
		if err := apply(item, in); err != nil {
			return err
		}
		item.UpdatedAt = uc.now()
		if err := repos.Items.Update(ctx, item); err != nil {
			return err
		}
		if in.Quantity != nil {
			updated, _, err := stock.SetQuantityInTx(ctx, repos, id, *in.Quantity, actor, item.UpdatedAt)
			if err != nil {
				return err
			}
			item.Quantity = updated.Quantity
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", id).Str("actor", actor).Msg("artículo actualizado")
	return out, nil
}

func apply(item *entity.Item, in dto.UpdateItemRequest) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Type != nil {
		item.Type = *in.Type
	}
	if in.SKU != nil {
		item.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return domain.ErrInvalidInput
		}
		item.MinStockLevel = *in.MinStockLevel
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		item.Price = *in.Price
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return domain.ErrInvalidInput
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Location != nil {
		item.Location = *in.Location
	}
	if in.Supplier != nil {
		item.Supplier = *in.Supplier
	}
	if in.ExpirationDate != nil {
		item.ExpirationDate = in.ExpirationDate.Ptr()
	}
	return nil
}

// Delete elimina el artículo. Las recepciones y facturas conservan su copia de los datos.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.items.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("item_id", id).Msg("artículo eliminado")
	return nil
}

// Stats resumen del inventario para el tablero.
func (uc *UseCase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	list, err := uc.items.List(ctx, repository.ItemFilter{})
	if err != nil {
		return nil, err
	}
	out := &dto.StatsResponse{LowStockItems: []string{}, TotalInventoryValue: decimal.Zero}
	categories := make(map[string]struct{})
	for _, it := range list {
		out.TotalQuantity += it.Quantity
		out.TotalInventoryValue = out.TotalInventoryValue.Add(it.Value())
		if it.Category != "" {
			categories[it.Category] = struct{}{}
		}
		if it.IsLowStock() {
			out.LowStockItems = append(out.LowStockItems, it.Name)
		}
	}
	out.LowStockCount = len(out.LowStockItems)
	out.UniqueCategoriesCount = len(categories)
	out.TotalInventoryValue = out.TotalInventoryValue.Round(2)
	return out, nil
}

// BatchNumber número de lote BATCH-<año>-<NNN>.
func BatchNumber(now time.Time, n int) string {
	return fmt.Sprintf("BATCH-%d-%03d", now.Year(), n)
}
