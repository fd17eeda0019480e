package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/metrics"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// AdjustInput entrada de un ajuste de cantidad.
type AdjustInput struct {
	ItemID string
	Delta  int
	Reason entity.AdjustmentReason
	Actor  string
}

// UseCase único punto de escritura de Item.Quantity.
// Cada ajuste es un read-modify-write con la fila bloqueada (SELECT FOR UPDATE) y su registro
// en stock_adjustments dentro de la misma transacción.
type UseCase struct {
	txRunner    repository.TxRunner
	adjustments repository.StockAdjustmentRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner repository.TxRunner, adjustments repository.StockAdjustmentRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:    txRunner,
		adjustments: adjustments,
		log:         log.Component("stock"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Adjust aplica delta a la cantidad del artículo y devuelve el artículo actualizado.
// Si la cantidad quedaría negativa devuelve *domain.StockError y no cambia nada.
func (uc *UseCase) Adjust(ctx context.Context, in AdjustInput) (*entity.Item, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	var out *entity.Item
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		item, _, err := AdjustInTx(ctx, repos, in, uc.now())
		out = item
		return err
	})
	if err != nil {
		uc.logFailure(in, err)
		return nil, err
	}
	uc.logApplied(in, out)
	return out, nil
}

// SetQuantity sobrescribe la cantidad (formulario de edición) como ajuste MANUAL de newQty - actual.
func (uc *UseCase) SetQuantity(ctx context.Context, itemID string, newQty int, actor string) (*entity.Item, error) {
	if itemID == "" || newQty < 0 {
		return nil, domain.ErrInvalidInput
	}
	in := AdjustInput{ItemID: itemID, Reason: entity.ReasonManual, Actor: actor}
	var out *entity.Item
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		item, delta, err := SetQuantityInTx(ctx, repos, itemID, newQty, actor, uc.now())
		in.Delta = delta
		out = item
		return err
	})
	if err != nil {
		uc.logFailure(in, err)
		return nil, err
	}
	uc.logApplied(in, out)
	return out, nil
}

// ListAdjustments historial de ajustes del artículo, más reciente primero.
func (uc *UseCase) ListAdjustments(ctx context.Context, itemID string) ([]*entity.StockAdjustment, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.adjustments.ListByItem(ctx, itemID)
}

// AdjustInTx ejecuta el ajuste con los repos de la transacción del caller (recepción, facturación).
// Devuelve el artículo actualizado y la cantidad previa.
func AdjustInTx(ctx context.Context, repos repository.TxRepos, in AdjustInput, now time.Time) (*entity.Item, int, error) {
	if err := validate(in); err != nil {
		return nil, 0, err
	}
	item, err := repos.Items.GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, 0, err
	}
	if item == nil {
		return nil, 0, fmt.Errorf("artículo %s: %w", in.ItemID, domain.ErrNotFound)
	}
	prev := item.Quantity
	if in.Delta == 0 {
		return item, prev, nil
	}
	next := prev + in.Delta
	if next < 0 {
		return nil, prev, &domain.StockError{ItemID: item.ID, ItemName: item.Name, Available: prev, Requested: -in.Delta}
	}

	if err := repos.Items.UpdateQuantity(ctx, item.ID, next); err != nil {
		return nil, prev, err
	}
	adj := &entity.StockAdjustment{
		ID:               uuid.New().String(),
		ItemID:           item.ID,
		Delta:            in.Delta,
		Reason:           in.Reason,
		Actor:            in.Actor,
		PreviousQuantity: prev,
		NewQuantity:      next,
		CreatedAt:        now,
	}
	if err := repos.Adjustments.Create(ctx, adj); err != nil {
		return nil, prev, err
	}
	item.Quantity = next
	item.UpdatedAt = now
	return item, prev, nil
}

// SetQuantityInTx lee la cantidad actual bajo bloqueo y aplica la diferencia como ajuste MANUAL.
// Devuelve el artículo y el delta aplicado.
func SetQuantityInTx(ctx context.Context, repos repository.TxRepos, itemID string, newQty int, actor string, now time.Time) (*entity.Item, int, error) {
	if newQty < 0 {
		return nil, 0, domain.ErrInvalidInput
	}
	item, err := repos.Items.GetForUpdate(ctx, itemID)
	if err != nil {
		return nil, 0, err
	}
	if item == nil {
		return nil, 0, fmt.Errorf("artículo %s: %w", itemID, domain.ErrNotFound)
	}
	delta := newQty - item.Quantity
	updated, _, err := AdjustInTx(ctx, repos, AdjustInput{
		ItemID: itemID,
		Delta:  delta,
		Reason: entity.ReasonManual,
		Actor:  actor,
	}, now)
	return updated, delta, err
}

func validate(in AdjustInput) error {
	if in.ItemID == "" || !in.Reason.Valid() {
		return domain.ErrInvalidInput
	}
	return nil
}

func (uc *UseCase) logApplied(in AdjustInput, item *entity.Item) {
	if in.Delta == 0 {
		return
	}
	reason := string(in.Reason)
	metrics.StockAdjustments.WithLabelValues(reason).Inc()
	metrics.StockUnits.WithLabelValues(reason).Add(float64(abs(in.Delta)))
	uc.log.Info().
		Str("item_id", in.ItemID).
		Int("delta", in.Delta).
		Str("reason", reason).
		Str("actor", in.Actor).
		Int("quantity", item.Quantity).
		Msg("ajuste de stock aplicado")
}

func (uc *UseCase) logFailure(in AdjustInput, err error) {
	var se *domain.StockError
	if errors.As(err, &se) {
		metrics.StockRejections.WithLabelValues(string(in.Reason)).Inc()
		uc.log.Warn().
			Str("item_id", in.ItemID).
			Int("delta", in.Delta).
			Str("reason", string(in.Reason)).
			Int("available", se.Available).
			Msg("ajuste rechazado: stock insuficiente")
		return
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
		return
	}
	uc.log.Error().Err(err).Str("item_id", in.ItemID).Int("delta", in.Delta).Msg("ajuste de stock falló")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
