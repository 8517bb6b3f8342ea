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
	"github.com/tu-usuario/catalogo-api/internal/application/usecase"
	"github.com/tu-usuario/catalogo-api/internal/domain/repository"
	"github.com/tu-usuario/catalogo-api/internal/infrastructure/memstore"
	"github.com/tu-usuario/catalogo-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/catalogo-api/internal/interfaces/http"
	"github.com/tu-usuario/catalogo-api/pkg/config"
	"github.com/tu-usuario/catalogo-api/pkg/logger"
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	var (
		productRepo  repository.ProductRepository
		categoryRepo repository.CategoryRepository
		historyRepo  repository.StockHistoryRepository
		txRunner     usecase.TxRunner
	)

	switch cfg.Store.Driver {
	case "postgres":
		ctx := context.Background()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		productRepo = postgres.NewProductRepository(pool)
		categoryRepo = postgres.NewCategoryRepository(pool)
		historyRepo = postgres.NewStockHistoryRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	default:
		store := memstore.New()
		productRepo = store.Products()
		categoryRepo = store.Categories()
		historyRepo = store.StockHistory()
		txRunner = memstore.NewTxRunner(store)
	}

	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, historyRepo, txRunner)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, productRepo)

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
		Title:    "Catálogo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		CategoryUC: categoryUC,
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
