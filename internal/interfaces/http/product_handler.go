package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/catalogo-api/internal/application/dto"
	"github.com/tu-usuario/catalogo-api/internal/application/usecase"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// parsePage lee los parámetros comunes de paginación y orden.
func parsePage(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Page:      c.QueryInt("page", 0),
		Size:      c.QueryInt("size", query.DefaultPageSize),
		SortBy:    c.Query("sortBy"),
		Direction: c.Query("direction", "asc"),
	}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msg := validateStruct(in); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (reemplazo completo de campos)
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos del producto"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msg := validateStruct(in); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Param        id  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar productos con filtros conjuntivos
// @Tags         products
// @Produce      json
// @Param        keyword        query  string  false  "Substring sobre name/sku/description"
// @Param        minPrice       query  string  false  "Precio mínimo (inclusive)"
// @Param        maxPrice       query  string  false  "Precio máximo (inclusive)"
// @Param        belowQuantity  query  int     false  "Existencias por debajo de este umbral (estricto)"
// @Param        minQuantity    query  int     false  "Existencias mínimas (inclusive)"
// @Param        maxQuantity    query  int     false  "Existencias máximas (inclusive)"
// @Param        outOfStock     query  bool    false  "Solo productos agotados"
// @Param        categoryIds    query  string  false  "IDs de categoría separados por coma"
// @Param        category       query  string  false  "Substring del nombre de categoría"
// @Param        uncategorized  query  bool    false  "Solo productos sin categoría"
// @Param        from           query  string  false  "Creados desde (RFC3339)"
// @Param        to             query  string  false  "Creados hasta (RFC3339)"
// @Param        page           query  int     false  "Página (base cero)"  default(0)
// @Param        size           query  int     false  "Tamaño de página"    default(10)
// @Param        sortBy         query  string  false  "name|sku|price|quantity|created_at"  default(name)
// @Param        direction      query  string  false  "asc|desc"  default(asc)
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	opts, errResp := parseProductFilter(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	sort, page := parsePage(c).ToQuery(query.SortByName)
	out, err := h.uc.List(opts, sort, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos por keyword
// @Tags         products
// @Produce      json
// @Param        keyword  query  string  true  "Substring sobre name/sku/description"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	sort, page := parsePage(c).ToQuery(query.SortByName)
	out, err := h.uc.Search(c.Query("keyword"), sort, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByPriceRange godoc
// @Summary      Listar productos por rango de precio (extremos inclusivos)
// @Tags         products
// @Produce      json
// @Param        minPrice  query  string  true  "Precio mínimo"
// @Param        maxPrice  query  string  true  "Precio máximo"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/price-range [get]
func (h *ProductHandler) ByPriceRange(c *fiber.Ctx) error {
	min, err := decimal.NewFromString(c.Query("minPrice"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "minPrice: debe ser un decimal"})
	}
	max, err := decimal.NewFromString(c.Query("maxPrice"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "maxPrice: debe ser un decimal"})
	}
	// El listado por precio ordena por price salvo indicación contraria.
	sort, page := parsePage(c).ToQuery(query.SortByPrice)
	out, ucErr := h.uc.ByPriceRange(min, max, sort, page)
	if ucErr != nil {
		return respondError(c, ucErr)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Listar productos con existencias bajas
// @Tags         products
// @Produce      json
// @Param        threshold  query  int  false  "Umbral (quantity < threshold)"  default(10)
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	sort, page := parsePage(c).ToQuery(query.SortByName)
	out, err := h.uc.LowStock(c.QueryInt("threshold", 10), sort, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OutOfStock godoc
// @Summary      Listar productos agotados
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products/out-of-stock [get]
func (h *ProductHandler) OutOfStock(c *fiber.Ctx) error {
	sort, page := parsePage(c).ToQuery(query.SortByName)
	out, err := h.uc.OutOfStock(sort, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Uncategorized godoc
// @Summary      Listar productos sin categoría
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products/uncategorized [get]
func (h *ProductHandler) Uncategorized(c *fiber.Ctx) error {
	sort, page := parsePage(c).ToQuery(query.SortByName)
	out, err := h.uc.Uncategorized(sort, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByCategories godoc
// @Summary      Listar productos por conjunto de categorías
// @Tags         products
// @Produce      json
// @Param        categoryIds  query  string  true  "IDs separados por coma"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/by-categories [get]
func (h *ProductHandler) ByCategories(c *fiber.Ctx) error {
	sort, page := parsePage(c).ToQuery(query.SortByName)
	out, err := h.uc.ByCategories(splitIDs(c.Query("categoryIds")), sort, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByCategoryName godoc
// @Summary      Listar productos por nombre de categoría (substring)
// @Tags         products
// @Produce      json
// @Param        category  query  string  true  "Substring del nombre de categoría"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/by-category-name [get]
func (h *ProductHandler) ByCategoryName(c *fiber.Ctx) error {
	sort, page := parsePage(c).ToQuery(query.SortByName)
	out, err := h.uc.ByCategoryName(c.Query("category"), sort, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AdjustStock godoc
// @Summary      Ajustar existencias (delta positivo o negativo)
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "Delta de existencias"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/adjust-stock [post]
func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msg := validateStruct(in); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}
	out, err := h.uc.AdjustStock(c.Params("id"), in.Change)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StockHistory godoc
// @Summary      Historial de existencias del producto
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock-history [get]
func (h *ProductHandler) StockHistory(c *fiber.Ctx) error {
	out, err := h.uc.StockHistory(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// parseProductFilter arma las dimensiones de filtro del listado general.
func parseProductFilter(c *fiber.Ctx) (usecase.ProductListOptions, *dto.ErrorResponse) {
	var opts usecase.ProductListOptions
	f := &opts.Filter

	f.Keyword = c.Query("keyword")
	if raw := c.Query("minPrice"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return opts, &dto.ErrorResponse{Code: "VALIDATION", Message: "minPrice: debe ser un decimal"}
		}
		f.MinPrice, f.MinPriceSet = min, true
	}
	if raw := c.Query("maxPrice"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			return opts, &dto.ErrorResponse{Code: "VALIDATION", Message: "maxPrice: debe ser un decimal"}
		}
		f.MaxPrice, f.MaxPriceSet = max, true
	}
	if raw := c.Query("belowQuantity"); raw != "" {
		threshold := c.QueryInt("belowQuantity")
		f.QuantityBelow = &threshold
	}
	if raw := c.Query("minQuantity"); raw != "" {
		n := c.QueryInt("minQuantity")
		f.MinQuantity = &n
	}
	if raw := c.Query("maxQuantity"); raw != "" {
		n := c.QueryInt("maxQuantity")
		f.MaxQuantity = &n
	}
	f.OutOfStock = c.QueryBool("outOfStock", false)
	f.CategoryIDs = splitIDs(c.Query("categoryIds"))
	opts.CategoryName = c.Query("category")
	f.Uncategorized = c.QueryBool("uncategorized", false)
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return opts, &dto.ErrorResponse{Code: "VALIDATION", Message: "from: debe ser RFC3339"}
		}
		f.CreatedFrom = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return opts, &dto.ErrorResponse{Code: "VALIDATION", Message: "to: debe ser RFC3339"}
		}
		f.CreatedTo = &t
	}
	return opts, nil
}

// splitIDs separa una lista de ids "a,b,c" ignorando vacíos.
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
