package main

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/application/catalog"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-pos/pkg/config"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// Aplica migraciones y carga artículos demo y el admin por defecto en PostgreSQL.
// Cada paso solo actúa si la tabla correspondiente está vacía.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Strs("applied", applied).Msg("migraciones al día")

	catalogUC := catalog.NewUseCase(postgres.NewTxRunner(pool), postgres.NewItemRepository(pool), log)
	n, err := catalogUC.SeedDemoItems(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed de artículos")
	}
	log.Info().Int("items", n).Msg("artículos demo")

	created, err := usecase.NewUserUseCase(postgres.NewUserRepository(pool), log).EnsureDefaultAdmin(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("usuario admin")
	}
	log.Info().Bool("created", created).Str("username", usecase.DefaultAdminUsername).Msg("usuario admin")
}
