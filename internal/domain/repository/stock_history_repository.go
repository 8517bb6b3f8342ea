package repository

import "github.com/tu-usuario/catalogo-api/internal/domain/entity"

// StockHistoryRepository define el puerto de persistencia para el historial
// de existencias de un producto.
type StockHistoryRepository interface {
	Record(movement *entity.StockMovement) error
	// ListByProduct devuelve los movimientos del producto, más reciente primero.
	ListByProduct(productID string) ([]*entity.StockMovement, error)
	// DeleteByProduct elimina el historial al borrar el producto (cascada).
	DeleteByProduct(productID string) error
}
