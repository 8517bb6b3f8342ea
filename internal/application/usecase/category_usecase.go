package usecase

import (
	"github.com/google/uuid"
	"github.com/tu-usuario/catalogo-api/internal/application/dto"
	"github.com/tu-usuario/catalogo-api/internal/domain"
	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
	"github.com/tu-usuario/catalogo-api/internal/domain/repository"
)

// CategoryUseCase orquesta validación, invariantes y store para categorías.
// El conteo de productos asociados es siempre derivado (índice inverso o COUNT),
// nunca una colección cargada en memoria.
type CategoryUseCase struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categories repository.CategoryRepository, products repository.ProductRepository) *CategoryUseCase {
	return &CategoryUseCase{categories: categories, products: products}
}

// Create crea una categoría nueva. El nombre es único (sensible a mayúsculas).
func (uc *CategoryUseCase) Create(in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
	}
	if err := domain.ValidateCategory(category); err != nil {
		return nil, err
	}
	// Chequeo consultivo; el índice del store decide ante creates concurrentes.
	if taken, err := uc.categories.ExistsByName(in.Name); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrDuplicateName
	}
	if err := uc.categories.Create(category); err != nil {
		return nil, err
	}
	return uc.toCategoryResponse(category)
}

// GetByID obtiene una categoría con su conteo de productos.
func (uc *CategoryUseCase) GetByID(id string) (*dto.CategoryResponse, error) {
	category, err := uc.categories.GetByID(id)
	if err != nil {
		return nil, err
	}
	return uc.toCategoryResponse(category)
}

// Update actualiza name/description. La unicidad del nombre se re-verifica
// solo si el nombre cambió.
func (uc *CategoryUseCase) Update(id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	current, err := uc.categories.GetByID(id)
	if err != nil {
		return nil, err
	}
	category := &entity.Category{
		ID:          current.ID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := domain.ValidateCategory(category); err != nil {
		return nil, err
	}
	if category.Name != current.Name {
		if taken, err := uc.categories.ExistsByName(category.Name); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrDuplicateName
		}
	}
	if err := uc.categories.Update(category); err != nil {
		return nil, err
	}
	return uc.toCategoryResponse(category)
}

// Delete elimina la categoría solo si no tiene productos asociados; si los
// tiene devuelve ErrCategoryInUse y nada cambia en el store.
func (uc *CategoryUseCase) Delete(id string) error {
	return uc.categories.Delete(id)
}

// List lista categorías filtradas por substring del nombre, con conteos.
func (uc *CategoryUseCase) List(filter query.CategoryFilter, sort query.Sort, page query.Page) (*dto.CategoryListResponse, error) {
	items, total, err := uc.categories.List(filter, sort, page)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(items))
	for _, c := range items {
		resp, err := uc.toCategoryResponse(c)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return &dto.CategoryListResponse{Items: out, Page: dto.NewPageResponse(page, total)}, nil
}

// Search busca categorías por substring del nombre (insensible a mayúsculas).
// El nombre es requerido.
func (uc *CategoryUseCase) Search(name string, sort query.Sort, page query.Page) (*dto.CategoryListResponse, error) {
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	return uc.List(query.CategoryFilter{Name: name}, sort, page)
}

// Empty lista las categorías sin productos asociados. El predicado depende del
// conteo derivado, así que se filtra sobre la secuencia ordenada completa y se
// aplica la ventana al final.
func (uc *CategoryUseCase) Empty(sort query.Sort, page query.Page) (*dto.CategoryListResponse, error) {
	all, err := uc.categories.ListAll(query.CategoryFilter{}, sort)
	if err != nil {
		return nil, err
	}
	empty := make([]dto.CategoryResponse, 0)
	for _, c := range all {
		count, err := uc.products.CountByCategory(c.ID)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			empty = append(empty, dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description})
		}
	}
	total := len(empty)
	lo, hi := page.Window(total)
	return &dto.CategoryListResponse{Items: empty[lo:hi], Page: dto.NewPageResponse(page, total)}, nil
}

func (uc *CategoryUseCase) toCategoryResponse(c *entity.Category) (*dto.CategoryResponse, error) {
	count, err := uc.products.CountByCategory(c.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ProductCount: count,
	}, nil
}
