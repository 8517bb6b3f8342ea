package memstore

import (
	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryStore)(nil)

// StockHistoryStore implementa el puerto StockHistoryRepository en memoria.
type StockHistoryStore struct {
	store *Store
}

// Record registra un movimiento de existencias.
func (r *StockHistoryStore) Record(movement *entity.StockMovement) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *movement
	s.history[movement.ProductID] = append(s.history[movement.ProductID], &cp)
	return nil
}

// ListByProduct devuelve los movimientos del producto, más reciente primero.
func (r *StockHistoryStore) ListByProduct(productID string) ([]*entity.StockMovement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	recorded := s.history[productID]
	out := make([]*entity.StockMovement, 0, len(recorded))
	for i := len(recorded) - 1; i >= 0; i-- {
		cp := *recorded[i]
		out = append(out, &cp)
	}
	return out, nil
}

// DeleteByProduct elimina el historial del producto.
func (r *StockHistoryStore) DeleteByProduct(productID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, productID)
	return nil
}
