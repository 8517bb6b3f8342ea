package repository

import (
	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
//
// Delete verifica el conteo de productos asociados dentro del mismo alcance de
// consistencia del borrado: una categoría referenciada devuelve ErrCategoryInUse
// y queda intacta, aun con escritores concurrentes.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	Update(category *entity.Category) error
	Delete(id string) error
	ExistsByName(name string) (bool, error)

	List(filter query.CategoryFilter, sort query.Sort, page query.Page) ([]*entity.Category, int, error)
	ListAll(filter query.CategoryFilter, sort query.Sort) ([]*entity.Category, error)
}
