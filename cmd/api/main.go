package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ezequielnz/backend-sub001/internal/application/settings"
	"github.com/Ezequielnz/backend-sub001/internal/application/transfer"
	"github.com/Ezequielnz/backend-sub001/internal/application/usecase"
	"github.com/Ezequielnz/backend-sub001/internal/infrastructure/event"
	"github.com/Ezequielnz/backend-sub001/internal/infrastructure/postgres"
	httpRouter "github.com/Ezequielnz/backend-sub001/internal/interfaces/http"
	"github.com/Ezequielnz/backend-sub001/pkg/config"
	"github.com/Ezequielnz/backend-sub001/pkg/logger"
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
		Bool("stock_transfers", cfg.Features.StockTransfers).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	branchRepo := postgres.NewBranchRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	settingsRepo := postgres.NewBranchSettingsRepository(pool)
	transferRepo := postgres.NewStockTransferRepository(pool)
	branchStockRepo := postgres.NewBranchStockRepository(pool)
	businessStockRepo := postgres.NewBusinessStockRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	publisher := event.NewPublisher(event.LogSink{Log: log}, log, cfg.Events.BufferSize)
	defer publisher.Close()

	settingsUC := settings.NewUseCase(settingsRepo, log)
	branchUC := usecase.NewBranchUseCase(branchRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	stockUC := usecase.NewStockUseCase(branchStockRepo, businessStockRepo)

	transferDeps := transfer.Deps{
		TxRunner:  txRunner,
		Transfers: transferRepo,
		Branches:  branchRepo,
		Products:  productRepo,
		Publisher: publisher,
		Log:       log,
	}

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
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		BranchUC:       branchUC,
		ProductUC:      productUC,
		StockUC:        stockUC,
		SettingsUC:     settingsUC,
		TransferDeps:   transferDeps,
		JWTSecret:      cfg.JWT.Secret,
		StockTransfers: cfg.Features.StockTransfers,
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
