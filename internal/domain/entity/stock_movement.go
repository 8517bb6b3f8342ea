package entity

import "time"

// StockMovement registra un cambio de existencias de un producto
// (creación, actualización o ajuste explícito).
type StockMovement struct {
	ID               string
	ProductID        string
	PreviousQuantity int
	NewQuantity      int
	QuantityChange   int // NewQuantity - PreviousQuantity
	CreatedAt        time.Time
}
