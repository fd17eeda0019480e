package main

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-pos/pkg/config"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

type storage struct {
	tx          repository.TxRunner
	items       repository.ItemRepository
	adjustments repository.StockAdjustmentRepository
	receipts    repository.ReceiptRepository
	invoices    repository.InvoiceRepository
	users       repository.UserRepository
	close       func()
}

// openStorage STORAGE=memory para desarrollo (se pierde al reiniciar); postgres aplica migraciones.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		st := memory.NewStore()
		return &storage{
			tx:          st,
			items:       st.Items(),
			adjustments: st.Adjustments(),
			receipts:    st.Receipts(),
			invoices:    st.Invoices(),
			users:       st.Users(),
			close:       func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("migración aplicada")
	}
	return &storage{
		tx:          postgres.NewTxRunner(pool),
		items:       postgres.NewItemRepository(pool),
		adjustments: postgres.NewStockAdjustmentRepository(pool),
		receipts:    postgres.NewReceiptRepository(pool),
		invoices:    postgres.NewInvoiceRepository(pool),
		users:       postgres.NewUserRepository(pool),
		close:       pool.Close,
	}, nil
}
