package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/fulfila/stock-api/internal/application/auth"
	"github.com/fulfila/stock-api/internal/application/movementorder"
	"github.com/fulfila/stock-api/internal/application/reception"
	"github.com/fulfila/stock-api/internal/application/report"
	"github.com/fulfila/stock-api/internal/application/stock"
	"github.com/fulfila/stock-api/internal/application/usecase"
	"github.com/fulfila/stock-api/internal/infrastructure/files"
	infrapdf "github.com/fulfila/stock-api/internal/infrastructure/pdf"
	"github.com/fulfila/stock-api/internal/infrastructure/postgres"
	httpRouter "github.com/fulfila/stock-api/internal/interfaces/http"
	"github.com/fulfila/stock-api/pkg/config"
	"github.com/fulfila/stock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	businessRepo := postgres.NewBusinessRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	storageRepo := postgres.NewStorageRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	orderRepo := postgres.NewMovementOrderRepository(pool)
	receptionRepo := postgres.NewReceptionRepository(pool)
	txRunner := postgres.NewTxRunner(pool, log)

	fileStore, err := files.NewLocalStore(cfg.Files.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar blob store")
	}

	ledger := stock.NewLedger(txRunner, storageRepo)
	stockQuery := stock.NewQuery(stockRepo, movementRepo, productRepo)
	movementOrderUC := movementorder.NewUseCase(txRunner, ledger, orderRepo, businessRepo)
	receptionUC := reception.NewUseCase(receptionRepo, businessRepo)
	businessUC := usecase.NewBusinessUseCase(businessRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	storageUC := usecase.NewStorageUseCase(storageRepo)

	pdfGenerator := infrapdf.NewMarotoMovementsGenerator()
	reportUC := report.NewUseCase(movementRepo, productRepo, storageRepo, businessRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, businessRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Fulfila Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BusinessUC:      businessUC,
		ProductUC:       productUC,
		StorageUC:       storageUC,
		Ledger:          ledger,
		StockQuery:      stockQuery,
		MovementOrderUC: movementOrderUC,
		ReceptionUC:     receptionUC,
		ReportUC:        reportUC,
		AuthUC:          authUC,
		Files:           fileStore,
		JWTSecret:       cfg.JWT.Secret,
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
