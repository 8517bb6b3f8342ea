package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

// StockHistoryRepo implementación del puerto StockHistoryRepository sobre PostgreSQL.
type StockHistoryRepo struct {
	q Querier
}

// NewStockHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockHistoryRepository(q Querier) *StockHistoryRepo {
	return &StockHistoryRepo{q: q}
}

// Record registra un movimiento de existencias.
func (r *StockHistoryRepo) Record(m *entity.StockMovement) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO stock_movements (id, product_id, previous_quantity, new_quantity, quantity_change, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ProductID, m.PreviousQuantity, m.NewQuantity, m.QuantityChange, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct devuelve los movimientos del producto, más reciente primero.
func (r *StockHistoryRepo) ListByProduct(productID string) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, product_id, previous_quantity, new_quantity, quantity_change, created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, id DESC`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.PreviousQuantity, &m.NewQuantity, &m.QuantityChange, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeleteByProduct elimina el historial del producto (el borrado normal cae en
// cascada por FK; esto existe para limpiezas explícitas).
func (r *StockHistoryRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_movements WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete stock movements: %w", err)
	}
	return nil
}
