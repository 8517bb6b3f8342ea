package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/catalogo-api/internal/application/dto"
	"github.com/tu-usuario/catalogo-api/internal/domain"
	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
	"github.com/tu-usuario/catalogo-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con repositorios atados a un mismo alcance de
// consistencia (transacción en PostgreSQL, passthrough en memoria).
type TxRunner interface {
	Run(fn func(
		productRepo repository.ProductRepository,
		historyRepo repository.StockHistoryRepository,
	) error) error
}

// ProductListOptions dimensiones de filtro de un listado de productos.
// CategoryName se resuelve a un conjunto de ids de categoría antes de
// llegar al motor de consulta.
type ProductListOptions struct {
	Filter       query.ProductFilter
	CategoryName string
}

// ProductUseCase orquesta validación, invariantes y store para productos.
// Cada escritura corre: validar → chequeo consultivo → commit (la restricción
// del store es la señal autoritativa de duplicado).
type ProductUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	history    repository.StockHistoryRepository
	tx         TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	history repository.StockHistoryRepository,
	tx TxRunner,
) *ProductUseCase {
	return &ProductUseCase{products: products, categories: categories, history: history, tx: tx}
}

// Create crea un producto nuevo con created_at == updated_at.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := domain.ValidateProduct(product); err != nil {
		return nil, err
	}
	// Chequeo consultivo: respuesta rápida en el caso común. El índice del
	// store decide ante un create concurrente con el mismo SKU.
	if taken, err := uc.products.ExistsBySKU(in.SKU); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrDuplicateSKU
	}
	err := uc.tx.Run(func(productRepo repository.ProductRepository, historyRepo repository.StockHistoryRepository) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if product.Quantity != 0 {
			return historyRepo.Record(newMovement(product.ID, 0, product.Quantity, now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update reemplaza todos los campos del producto (id y created_at inmutables).
// La unicidad del SKU se re-verifica solo si el SKU cambió.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	current, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:          current.ID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   now,
	}
	if err := domain.ValidateProduct(product); err != nil {
		return nil, err
	}
	if product.SKU != current.SKU {
		if taken, err := uc.products.ExistsBySKU(product.SKU); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrDuplicateSKU
		}
	}
	err = uc.tx.Run(func(productRepo repository.ProductRepository, historyRepo repository.StockHistoryRepository) error {
		if err := productRepo.Update(product); err != nil {
			return err
		}
		if product.Quantity != current.Quantity {
			return historyRepo.Record(newMovement(product.ID, current.Quantity, product.Quantity, now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina el producto. Un id inexistente devuelve ErrNotFound.
func (uc *ProductUseCase) Delete(id string) error {
	return uc.products.Delete(id)
}

// AdjustStock aplica un delta a las existencias y registra el movimiento.
// El delta se aplica dentro del alcance de consistencia del store (ajuste
// relativo, no leer-modificar-escribir): ajustes concurrentes sobre el mismo
// producto se suman, y un resultado negativo devuelve ErrInsufficientStock
// evaluado contra la cantidad vigente, sin tocar el store.
func (uc *ProductUseCase) AdjustStock(id string, change int) (*dto.ProductResponse, error) {
	now := time.Now()
	var updated *entity.Product
	err := uc.tx.Run(func(productRepo repository.ProductRepository, historyRepo repository.StockHistoryRepository) error {
		p, err := productRepo.AdjustQuantity(id, change, now)
		if err != nil {
			return err
		}
		updated = p
		return historyRepo.Record(newMovement(id, p.Quantity-change, p.Quantity, now))
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(updated), nil
}

// StockHistory devuelve el historial de existencias del producto, más reciente primero.
func (uc *ProductUseCase) StockHistory(id string) ([]dto.StockMovementResponse, error) {
	if _, err := uc.products.GetByID(id); err != nil {
		return nil, err
	}
	movements, err := uc.history.ListByProduct(id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.StockMovementResponse{
			ID:               m.ID,
			ProductID:        m.ProductID,
			PreviousQuantity: m.PreviousQuantity,
			NewQuantity:      m.NewQuantity,
			QuantityChange:   m.QuantityChange,
			CreatedAt:        m.CreatedAt,
		})
	}
	return out, nil
}

// List es el listado general: valida el filtro, resuelve el nombre de categoría
// a ids y delega en el motor de consulta del store.
func (uc *ProductUseCase) List(opts ProductListOptions, sort query.Sort, page query.Page) (*dto.ProductListResponse, error) {
	filter := opts.Filter
	if err := domain.ValidateProductFilter(filter); err != nil {
		return nil, err
	}
	if opts.CategoryName != "" {
		ids, err := uc.resolveCategoryName(opts.CategoryName)
		if err != nil {
			return nil, err
		}
		// El nombre es una dimensión más de la conjunción: si el caller ya
		// acotó por ids, solo sobreviven los ids que cumplen ambas.
		if len(filter.CategoryIDs) > 0 {
			ids = intersectIDs(filter.CategoryIDs, ids)
		}
		if len(ids) == 0 {
			// Ninguna categoría cumple todas las dimensiones: resultado vacío, no error.
			return &dto.ProductListResponse{
				Items: []dto.ProductResponse{},
				Page:  dto.NewPageResponse(page, 0),
			}, nil
		}
		filter.CategoryIDs = ids
	}
	items, total, err := uc.products.List(filter, sort, page)
	if err != nil {
		return nil, err
	}
	return toProductListResponse(items, page, total), nil
}

// Search busca por keyword en name, sku y description. El keyword es requerido.
func (uc *ProductUseCase) Search(keyword string, sort query.Sort, page query.Page) (*dto.ProductListResponse, error) {
	if keyword == "" {
		return nil, domain.NewValidationError("keyword", "es requerido")
	}
	return uc.List(ProductListOptions{Filter: query.ProductFilter{Keyword: keyword}}, sort, page)
}

// ByPriceRange lista productos con precio en [min, max], extremos inclusivos.
func (uc *ProductUseCase) ByPriceRange(min, max decimal.Decimal, sort query.Sort, page query.Page) (*dto.ProductListResponse, error) {
	if err := domain.ValidatePriceRange(min, max); err != nil {
		return nil, err
	}
	filter := query.ProductFilter{MinPrice: min, MinPriceSet: true, MaxPrice: max, MaxPriceSet: true}
	return uc.List(ProductListOptions{Filter: filter}, sort, page)
}

// LowStock lista productos con existencias por debajo del umbral.
func (uc *ProductUseCase) LowStock(threshold int, sort query.Sort, page query.Page) (*dto.ProductListResponse, error) {
	if err := domain.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	return uc.List(ProductListOptions{Filter: query.ProductFilter{QuantityBelow: &threshold}}, sort, page)
}

// OutOfStock lista productos con existencias en cero.
func (uc *ProductUseCase) OutOfStock(sort query.Sort, page query.Page) (*dto.ProductListResponse, error) {
	return uc.List(ProductListOptions{Filter: query.ProductFilter{OutOfStock: true}}, sort, page)
}

// ByCategories lista productos que pertenecen a cualquiera de las categorías dadas.
func (uc *ProductUseCase) ByCategories(categoryIDs []string, sort query.Sort, page query.Page) (*dto.ProductListResponse, error) {
	if len(categoryIDs) == 0 {
		return nil, domain.NewValidationError("categoryIds", "es requerido")
	}
	return uc.List(ProductListOptions{Filter: query.ProductFilter{CategoryIDs: categoryIDs}}, sort, page)
}

// ByCategoryName lista productos cuya categoría coincide por substring del nombre.
func (uc *ProductUseCase) ByCategoryName(name string, sort query.Sort, page query.Page) (*dto.ProductListResponse, error) {
	if name == "" {
		return nil, domain.NewValidationError("category", "es requerido")
	}
	return uc.List(ProductListOptions{CategoryName: name}, sort, page)
}

// Uncategorized lista productos sin categoría asignada.
func (uc *ProductUseCase) Uncategorized(sort query.Sort, page query.Page) (*dto.ProductListResponse, error) {
	return uc.List(ProductListOptions{Filter: query.ProductFilter{Uncategorized: true}}, sort, page)
}

// CreatedBetween lista, sin paginar, los productos creados en [from, to] (uso interno/reportes).
func (uc *ProductUseCase) CreatedBetween(from, to time.Time, sort query.Sort) ([]dto.ProductResponse, error) {
	filter := query.ProductFilter{CreatedFrom: &from, CreatedTo: &to}
	if err := domain.ValidateProductFilter(filter); err != nil {
		return nil, err
	}
	items, err := uc.products.ListAll(filter, sort)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// resolveCategoryName traduce el substring de nombre al conjunto de ids de
// categorías coincidentes (insensible a mayúsculas).
func (uc *ProductUseCase) resolveCategoryName(name string) ([]string, error) {
	matches, err := uc.categories.ListAll(query.CategoryFilter{Name: name}, query.Sort{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, c := range matches {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func intersectIDs(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, id := range b {
		inB[id] = true
	}
	out := make([]string, 0, len(a))
	for _, id := range a {
		if inB[id] {
			out = append(out, id)
		}
	}
	return out
}

func newMovement(productID string, previous, current int, at time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:               uuid.New().String(),
		ProductID:        productID,
		PreviousQuantity: previous,
		NewQuantity:      current,
		QuantityChange:   current - previous,
		CreatedAt:        at,
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductListResponse(items []*entity.Product, page query.Page, total int) *dto.ProductListResponse {
	out := make([]dto.ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: out, Page: dto.NewPageResponse(page, total)}
}
