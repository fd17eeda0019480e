package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/billing"
	"github.com/jhoicas/tienda-pos/internal/application/catalog"
	"github.com/jhoicas/tienda-pos/internal/application/pos"
	"github.com/jhoicas/tienda-pos/internal/application/receiving"
	"github.com/jhoicas/tienda-pos/internal/application/stock"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	Catalog   *catalog.UseCase
	Stock     *stock.UseCase
	Receiving *receiving.UseCase
	Billing   *billing.UseCase
	Sessions  *pos.SessionStore
	JWTSecret string
	AppName   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	health := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	}
	app.Get("/health", health)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")
	api.Get("/health", health)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))

	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.Catalog, deps.Stock)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Post("/:id/adjust_stock", itemHandler.AdjustStock)
	items.Get("/:id/adjustments", itemHandler.Adjustments)
	protected.Get("/stats", itemHandler.Stats)

	receipts := protected.Group("/receipts")
	receiptHandler := NewReceiptHandler(deps.Receiving)
	receipts.Get("/", receiptHandler.List)
	receipts.Post("/", receiptHandler.Create)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Billing)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	if deps.Sessions != nil {
		drafts := protected.Group("/pos/drafts")
		posHandler := NewPOSHandler(deps.Sessions)
		drafts.Post("/", posHandler.Open)
		drafts.Get("/:id", posHandler.Get)
		drafts.Delete("/:id", posHandler.Delete)
		drafts.Post("/:id/lines", posHandler.AddLine)
		drafts.Post("/:id/clear", posHandler.Clear)
		drafts.Post("/:id/void", posHandler.Void)
		drafts.Post("/:id/commit", posHandler.Commit)
	}

	// Usuarios (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id/password", userHandler.ChangePassword)
}
