package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ezequielnz/backend-sub001/internal/application/settings"
	"github.com/Ezequielnz/backend-sub001/internal/application/transfer"
	"github.com/Ezequielnz/backend-sub001/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BranchUC       *usecase.BranchUseCase
	ProductUC      *usecase.ProductUseCase
	StockUC        *usecase.StockUseCase
	SettingsUC     *settings.UseCase
	TransferDeps   transfer.Deps
	JWTSecret      string
	StockTransfers bool // feature flag: rutas de traslados
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Branches (protegido)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.Get)
	branches.Put("/:id", branchHandler.Update)

	// Products (protegido, solo lectura)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)

	// Stock ledgers (protegido, solo lectura)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/", stockHandler.ListAggregate)
	stock.Get("/branch/:branch_id", stockHandler.ListByBranch)

	// Branch settings (protegido; PATCH solo admin)
	settingsGroup := protected.Group("/branch-settings")
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settingsGroup.Get("/", settingsHandler.Get)
	settingsGroup.Patch("/", RequireRole("admin"), settingsHandler.Update)

	// Stock transfers (protegido, detrás del feature flag: con el flag
	// apagado las rutas se comportan como inexistentes).
	transfers := protected.Group("/stock-transfers", RequireFeature(deps.StockTransfers))
	transferHandler := NewTransferHandler(deps.TransferDeps, deps.SettingsUC)
	transfers.Get("/", transferHandler.List)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Post("/:id/confirm", transferHandler.Confirm)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Delete("/:id", transferHandler.Delete)
}
