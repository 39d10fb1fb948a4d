package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/fulfila/stock-api/internal/application/auth"
	"github.com/fulfila/stock-api/internal/application/movementorder"
	"github.com/fulfila/stock-api/internal/application/reception"
	"github.com/fulfila/stock-api/internal/application/report"
	"github.com/fulfila/stock-api/internal/application/stock"
	"github.com/fulfila/stock-api/internal/application/usecase"
	"github.com/fulfila/stock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BusinessUC      *usecase.BusinessUseCase
	ProductUC       *usecase.ProductUseCase
	StorageUC       *usecase.StorageUseCase
	Ledger          *stock.Ledger
	StockQuery      *stock.Query
	MovementOrderUC *movementorder.UseCase
	ReceptionUC     *reception.UseCase
	ReportUC        *report.UseCase
	AuthUC          *auth.AuthUseCase
	Files           FileStore
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Businesses (público por ahora; onboarding de vendedores)
	businesses := api.Group("/businesses")
	businessHandler := NewBusinessHandler(deps.BusinessUC)
	businesses.Get("/", businessHandler.List)
	businesses.Post("/", businessHandler.Create)
	businesses.Get("/:id", businessHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Storages (protegido; mutaciones solo admin)
	storages := protected.Group("/storages")
	storageHandler := NewStorageHandler(deps.StorageUC)
	storages.Post("/", RequireRole(entity.RoleAdmin), storageHandler.Create)
	storages.Get("/", storageHandler.List)
	storages.Get("/:id", storageHandler.GetByID)
	storages.Put("/:id", RequireRole(entity.RoleAdmin), storageHandler.Update)

	// Stock ledger directo (protegido; mutaciones de bodega)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger, deps.StockQuery)
	mutateStock := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	stockGroup.Post("/ingress", mutateStock, stockHandler.Ingress)
	stockGroup.Post("/egress", mutateStock, stockHandler.Egress)
	stockGroup.Post("/transfer", mutateStock, stockHandler.Transfer)
	stockGroup.Get("/product/:productId", stockHandler.StocksByProduct)
	stockGroup.Get("/movements", stockHandler.MovementsByBusiness)
	stockGroup.Get("/movements/product/:productId", stockHandler.MovementsByProduct)
	stockGroup.Get("/movements/storage/:storageId", stockHandler.MovementsByStorage)

	// Movement orders (protegido; approve/complete/delete solo admin)
	orders := protected.Group("/movement-orders")
	orderHandler := NewMovementOrderHandler(deps.MovementOrderUC, deps.Files)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/pending", RequireRole(entity.RoleAdmin), orderHandler.ListPending)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/approve", RequireRole(entity.RoleAdmin), orderHandler.Approve)
	orders.Post("/:id/complete", RequireRole(entity.RoleAdmin), orderHandler.Complete)
	orders.Delete("/:id", RequireRole(entity.RoleAdmin), orderHandler.Delete)

	// Receptions (protegido)
	receptions := protected.Group("/receptions")
	receptionHandler := NewReceptionHandler(deps.ReceptionUC, deps.Files)
	receptions.Post("/", receptionHandler.Create)
	receptions.Get("/", receptionHandler.List)
	receptions.Post("/:id/approve", RequireRole(entity.RoleAdmin), receptionHandler.Approve)
	receptions.Post("/:id/complete", RequireRole(entity.RoleAdmin), receptionHandler.Complete)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/movements", reportHandler.MovementsPDF)
}
