package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,max=20"`
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Quantity    int             `json:"quantity" validate:"min=0"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
}

// UpdateProductRequest entrada para actualizar un producto.
// La semántica es de reemplazo completo: todos los campos se toman del draft
// (id y created_at son inmutables; la unicidad del SKU se re-verifica solo si cambió).
type UpdateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,max=20"`
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Quantity    int             `json:"quantity" validate:"min=0"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
}

// AdjustStockRequest ajuste explícito de existencias (delta positivo o negativo).
type AdjustStockRequest struct {
	Change int `json:"change" validate:"required"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockMovementResponse un movimiento del historial de existencias.
type StockMovementResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	QuantityChange   int       `json:"quantity_change"`
	CreatedAt        time.Time `json:"created_at"`
}
