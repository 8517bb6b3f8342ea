package memstore

import (
	"time"

	"github.com/tu-usuario/catalogo-api/internal/domain"
	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
	"github.com/tu-usuario/catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductStore)(nil)

// ProductStore implementa el puerto ProductRepository sobre el store en memoria.
type ProductStore struct {
	store *Store
}

// Create persiste un producto nuevo. El índice de SKU y la existencia de la
// categoría se verifican dentro de la misma sección crítica que el commit:
// dos creates concurrentes con el mismo SKU nunca pueden ganar ambos.
func (r *ProductStore) Create(product *entity.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.skuIndex[product.SKU]; taken {
		return domain.ErrDuplicateSKU
	}
	if product.CategoryID != "" {
		if _, ok := s.categories[product.CategoryID]; !ok {
			return domain.ErrCategoryNotFound
		}
	}

	s.products[product.ID] = product.Clone()
	s.skuIndex[product.SKU] = product.ID
	if product.CategoryID != "" {
		s.catRefs[product.CategoryID]++
	}
	return nil
}

// GetByID obtiene una copia del producto, o ErrNotFound.
func (r *ProductStore) GetByID(id string) (*entity.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

// Update reemplaza el producto completo. Si el SKU cambió, la unicidad se
// re-verifica bajo el mismo lock; los conteos de categoría se ajustan.
func (r *ProductStore) Update(product *entity.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if product.SKU != current.SKU {
		if _, taken := s.skuIndex[product.SKU]; taken {
			return domain.ErrDuplicateSKU
		}
	}
	if product.CategoryID != "" && product.CategoryID != current.CategoryID {
		if _, ok := s.categories[product.CategoryID]; !ok {
			return domain.ErrCategoryNotFound
		}
	}

	if product.SKU != current.SKU {
		delete(s.skuIndex, current.SKU)
		s.skuIndex[product.SKU] = product.ID
	}
	if product.CategoryID != current.CategoryID {
		if current.CategoryID != "" {
			s.catRefs[current.CategoryID]--
		}
		if product.CategoryID != "" {
			s.catRefs[product.CategoryID]++
		}
	}
	s.products[product.ID] = product.Clone()
	return nil
}

// Delete elimina el producto y su historial de existencias (cascada).
// Un id inexistente devuelve ErrNotFound, no es silencioso.
func (r *ProductStore) Delete(id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.products, id)
	delete(s.skuIndex, p.SKU)
	delete(s.history, id)
	if p.CategoryID != "" {
		s.catRefs[p.CategoryID]--
	}
	return nil
}

// AdjustQuantity aplica el delta bajo el mismo lock que la lectura: la guardia
// de negativo evalúa contra la cantidad vigente, nunca contra una copia vieja,
// y dos ajustes concurrentes se suman en vez de pisarse.
func (r *ProductStore) AdjustQuantity(id string, delta int, at time.Time) (*entity.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	newQuantity := p.Quantity + delta
	if newQuantity < 0 {
		return nil, domain.ErrInsufficientStock
	}
	p.Quantity = newQuantity
	p.UpdatedAt = at
	return p.Clone(), nil
}

// ExistsBySKU es el chequeo consultivo de unicidad (la señal autoritativa es Create/Update).
func (r *ProductStore) ExistsBySKU(sku string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.skuIndex[sku]
	return ok, nil
}

// List devuelve la página solicitada y el total de coincidencias del filtro.
func (r *ProductStore) List(filter query.ProductFilter, sort query.Sort, page query.Page) ([]*entity.Product, int, error) {
	matches := r.scan(filter)
	query.OrderProducts(matches, sort)
	total := len(matches)
	return query.PageProducts(matches, page), total, nil
}

// ListAll devuelve la secuencia completa ordenada, sin ventana.
func (r *ProductStore) ListAll(filter query.ProductFilter, sort query.Sort) ([]*entity.Product, error) {
	matches := r.scan(filter)
	query.OrderProducts(matches, sort)
	return matches, nil
}

// CountByCategory responde "¿está referenciada esta categoría?" desde el índice
// inverso, sin recorrer los productos.
func (r *ProductStore) CountByCategory(categoryID string) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catRefs[categoryID], nil
}

// scan es la primitiva de barrido con predicado: copia las coincidencias bajo
// RLock y suelta el lock antes de ordenar, para no bloquear a los escritores.
func (r *ProductStore) scan(filter query.ProductFilter) []*entity.Product {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*entity.Product, 0)
	for _, p := range s.products {
		if query.MatchProduct(p, filter) {
			matches = append(matches, p.Clone())
		}
	}
	return matches
}
