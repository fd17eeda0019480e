package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	s    *Store
	inTx bool
}

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	defer r.s.guard(r.inTx)()
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrConflict
	}
	if item.SKU != "" && r.findBySKU(item.SKU) != nil {
		return domain.ErrConflict
	}
	r.s.items[item.ID] = copyItem(item)
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	defer r.s.guard(r.inTx)()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return copyItem(it), nil
}

func (r *ItemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	defer r.s.guard(r.inTx)()
	if it := r.findBySKU(sku); it != nil {
		return copyItem(it), nil
	}
	return nil, nil
}

// GetForUpdate el bloqueo lo da Run; fuera de transacción equivale a GetByID.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if item.SKU != "" {
		if other := r.findBySKU(item.SKU); other != nil && other.ID != item.ID {
			return domain.ErrConflict
		}
	}
	next := copyItem(item)
	next.Quantity = cur.Quantity
	r.s.items[item.ID] = next
	return nil
}

func (r *ItemRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if quantity < 0 {
		return domain.ErrInvalidInput
	}
	cur.Quantity = quantity
	return nil
}

func (r *ItemRepo) List(_ context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	defer r.s.guard(r.inTx)()
	list := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		if filter.SKU != "" && it.SKU != filter.SKU {
			continue
		}
		list = append(list, copyItem(it))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *ItemRepo) Count(_ context.Context) (int, error) {
	defer r.s.guard(r.inTx)()
	return len(r.s.items), nil
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	defer r.s.guard(r.inTx)()
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

func (r *ItemRepo) findBySKU(sku string) *entity.Item {
	if sku == "" {
		return nil
	}
	for _, it := range r.s.items {
		if it.SKU == sku {
			return it
		}
	}
	return nil
}
