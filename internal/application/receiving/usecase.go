package receiving

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tienda-pos/internal/application/stock"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/metrics"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// ReceiveInput recepción de mercancía escaneada.
type ReceiveInput struct {
	ItemID     string
	Quantity   int
	ReceivedBy string
	ReceivedAt time.Time // opcional; cero = ahora
}

// UseCase ledger de recepciones: suma stock (RECEIVE) y agrega el Receipt en la misma transacción.
type UseCase struct {
	txRunner repository.TxRunner
	receipts repository.ReceiptRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner repository.TxRunner, receipts repository.ReceiptRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner: txRunner,
		receipts: receipts,
		log:      log.Component("receiving"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Record suma Quantity al artículo y registra la recepción. Si el ajuste falla no queda Receipt.
func (uc *UseCase) Record(ctx context.Context, in ReceiveInput) (*entity.Receipt, *entity.Item, error) {
	if in.ItemID == "" || in.Quantity <= 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	now := uc.now()
	receivedAt := in.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = now
	}

	var rec *entity.Receipt
	var item *entity.Item
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		updated, prev, err := stock.AdjustInTx(ctx, repos, stock.AdjustInput{
			ItemID: in.ItemID,
			Delta:  in.Quantity,
			Reason: entity.ReasonReceive,
			Actor:  in.ReceivedBy,
		}, now)
		if err != nil {
			return err
		}
		r := &entity.Receipt{
			ID:               uuid.New().String(),
			ItemID:           updated.ID,
			ItemName:         updated.Name,
			SKU:              updated.SKU,
			Quantity:         in.Quantity,
			PreviousQuantity: prev,
			NewQuantity:      updated.Quantity,
			ReceivedBy:       in.ReceivedBy,
			ReceivedAt:       receivedAt,
			CreatedAt:        now,
		}
		if err := repos.Receipts.Create(ctx, r); err != nil {
			return err
		}
		rec, item = r, updated
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("item_id", in.ItemID).Int("quantity", in.Quantity).Msg("recepción rechazada")
		return nil, nil, err
	}

	metrics.Receipts.Inc()
	metrics.StockAdjustments.WithLabelValues(string(entity.ReasonReceive)).Inc()
	metrics.StockUnits.WithLabelValues(string(entity.ReasonReceive)).Add(float64(in.Quantity))
	uc.log.Info().
		Str("item_id", rec.ItemID).
		Int("quantity", rec.Quantity).
		Int("previous", rec.PreviousQuantity).
		Int("new", rec.NewQuantity).
		Str("received_by", rec.ReceivedBy).
		Msg("recepción registrada")
	return rec, item, nil
}

// List recepciones, más recientes primero.
func (uc *UseCase) List(ctx context.Context) ([]*entity.Receipt, error) {
	list, err := uc.receipts.List(ctx)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(list)
	return list, nil
}

// SortNewestFirst ordena por fecha de recepción descendente (CreatedAt si falta);
// a igual fecha gana la inserción posterior (Seq mayor).
func SortNewestFirst(list []*entity.Receipt) {
	sort.SliceStable(list, func(i, j int) bool {
		ti, tj := list[i].SortTime(), list[j].SortTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return list[i].Seq > list[j].Seq
	})
}
