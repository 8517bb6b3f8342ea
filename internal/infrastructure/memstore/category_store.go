package memstore

import (
	"github.com/tu-usuario/catalogo-api/internal/domain"
	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
	"github.com/tu-usuario/catalogo-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryStore)(nil)

// CategoryStore implementa el puerto CategoryRepository sobre el store en memoria.
type CategoryStore struct {
	store *Store
}

// Create persiste una categoría nueva. El índice de nombre (sensible a
// mayúsculas) se verifica dentro de la misma sección crítica que el commit.
func (r *CategoryStore) Create(category *entity.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.nameIndex[category.Name]; taken {
		return domain.ErrDuplicateName
	}
	s.categories[category.ID] = category.Clone()
	s.nameIndex[category.Name] = category.ID
	return nil
}

// GetByID obtiene una copia de la categoría, o ErrNotFound.
func (r *CategoryStore) GetByID(id string) (*entity.Category, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c.Clone(), nil
}

// Update reemplaza la categoría. Si el nombre cambió, la unicidad se
// re-verifica bajo el mismo lock.
func (r *CategoryStore) Update(category *entity.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.categories[category.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if category.Name != current.Name {
		if _, taken := s.nameIndex[category.Name]; taken {
			return domain.ErrDuplicateName
		}
		delete(s.nameIndex, current.Name)
		s.nameIndex[category.Name] = category.ID
	}
	s.categories[category.ID] = category.Clone()
	return nil
}

// Delete elimina la categoría solo si ningún producto la referencia.
// El conteo se consulta bajo el mismo lock que el borrado: un create de
// producto concurrente que asigne la categoría no puede colarse entre ambos.
func (r *CategoryStore) Delete(id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return domain.ErrNotFound
	}
	if s.catRefs[id] > 0 {
		return domain.ErrCategoryInUse
	}
	delete(s.categories, id)
	delete(s.nameIndex, c.Name)
	delete(s.catRefs, id)
	return nil
}

// ExistsByName es el chequeo consultivo de unicidad del nombre.
func (r *CategoryStore) ExistsByName(name string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nameIndex[name]
	return ok, nil
}

// List devuelve la página solicitada y el total de coincidencias del filtro.
func (r *CategoryStore) List(filter query.CategoryFilter, sort query.Sort, page query.Page) ([]*entity.Category, int, error) {
	matches := r.scan(filter)
	query.OrderCategories(matches, sort)
	total := len(matches)
	return query.PageCategories(matches, page), total, nil
}

// ListAll devuelve la secuencia completa ordenada, sin ventana.
func (r *CategoryStore) ListAll(filter query.CategoryFilter, sort query.Sort) ([]*entity.Category, error) {
	matches := r.scan(filter)
	query.OrderCategories(matches, sort)
	return matches, nil
}

func (r *CategoryStore) scan(filter query.CategoryFilter) []*entity.Category {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*entity.Category, 0)
	for _, c := range s.categories {
		if query.MatchCategory(c, filter) {
			matches = append(matches, c.Clone())
		}
	}
	return matches
}
