package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/stock-tracker/internal/application/analytics"
	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/application/purchasing"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	ItemUC          *inventory.ItemUseCase
	ReportUC        *inventory.ReportUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	OrderUC         *purchasing.OrderUseCase
	DashboardUC     *appanalytics.DashboardUseCase
	Health          appanalytics.DegradationReporter
	Metrics         *metrics.Metrics
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		degraded := deps.Health != nil && deps.Health.Degraded()
		return c.JSON(fiber.Map{"status": "ok", "store_degraded": degraded})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", authHandler.Me)

	// Items: lectura para todos, escritura solo admin
	items := protected.Group("/items")
	inventoryHandler := NewInventoryHandler(deps.ItemUC, deps.ReplenishmentUC)
	items.Get("/", inventoryHandler.List)
	items.Get("/replenishment", inventoryHandler.GetReplenishmentList)
	items.Get("/:id", inventoryHandler.GetByID)
	items.Post("/", adminOnly, inventoryHandler.Create)
	items.Put("/:id", adminOnly, inventoryHandler.Update)
	items.Patch("/:id/stock", adminOnly, inventoryHandler.SetStock)
	items.Delete("/:id", adminOnly, inventoryHandler.Delete)

	// Reports
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Post("/", reportHandler.Submit)
	reports.Get("/", reportHandler.List)
	reports.Get("/:id", reportHandler.GetByID)
	reports.Patch("/:id/status", adminOnly, reportHandler.SetStatus)
	reports.Post("/:id/apply", adminOnly, reportHandler.Apply)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)

	// Orders (solo admin)
	orders := protected.Group("/orders", adminOnly)
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Post("/from-replenishment", orderHandler.CreateFromReplenishment)
	orders.Post("/sync-inventory", orderHandler.SyncInventory)
	orders.Get("/external/health", orderHandler.TestConnection)
	orders.Get("/external/:externalId/status", orderHandler.ExternalStatus)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/send", orderHandler.Send)
	orders.Get("/:id/pdf", orderHandler.PDF)
}
