package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/tienda-pos/docs"
	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/billing"
	"github.com/jhoicas/tienda-pos/internal/application/catalog"
	"github.com/jhoicas/tienda-pos/internal/application/pos"
	"github.com/jhoicas/tienda-pos/internal/application/receiving"
	"github.com/jhoicas/tienda-pos/internal/application/stock"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	infrapdf "github.com/jhoicas/tienda-pos/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/tienda-pos/internal/interfaces/http"
	"github.com/jhoicas/tienda-pos/pkg/config"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer st.close()

	stockUC := stock.NewUseCase(st.tx, st.adjustments, log)
	catalogUC := catalog.NewUseCase(st.tx, st.items, log)
	receivingUC := receiving.NewUseCase(st.tx, st.receipts, log)
	billingUC := billing.NewUseCase(st.tx, st.invoices, infrapdf.NewMarotoPDFGenerator(), billing.ShopInfo{
		Name:    cfg.Shop.Name,
		Address: cfg.Shop.Address,
		Phone:   cfg.Shop.Phone,
	}, log)
	userUC := usecase.NewUserUseCase(st.users, log)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Borradores POS del lado servidor: mismos casos de uso, sin pasar por HTTP.
	coordinator := pos.NewCoordinator(
		pos.LocalItems{Items: st.items},
		pos.LocalStock{Stock: stockUC},
		pos.LocalInvoices{Billing: billingUC},
		log,
	)

	if _, err := userUC.EnsureDefaultAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("usuario admin por defecto")
	}
	if cfg.App.SeedOnStart {
		n, err := catalogUC.SeedDemoItems(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("seed de artículos")
		}
		log.Info().Int("items", n).Msg("artículos demo")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda POS API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		Catalog:   catalogUC,
		Stock:     stockUC,
		Receiving: receivingUC,
		Billing:   billingUC,
		Sessions:  pos.NewSessionStore(coordinator),
		JWTSecret: cfg.JWT.Secret,
		AppName:   cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
