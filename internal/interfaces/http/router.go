package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/catalogo-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/price-range", productHandler.ByPriceRange)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/out-of-stock", productHandler.OutOfStock)
	products.Get("/uncategorized", productHandler.Uncategorized)
	products.Get("/by-categories", productHandler.ByCategories)
	products.Get("/by-category-name", productHandler.ByCategoryName)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/adjust-stock", productHandler.AdjustStock)
	products.Get("/:id/stock-history", productHandler.StockHistory)

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/search", categoryHandler.Search)
	categories.Get("/empty", categoryHandler.Empty)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)
}
