package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo identificado por SKU único global.
// La categoría es opcional: CategoryID vacío significa producto sin categorizar.
type Product struct {
	ID          string
	SKU         string // código único global, máx. 20 caracteres
	Name        string
	Description string
	Quantity    int             // existencias, nunca negativo
	Price       decimal.Decimal // precio exacto (sin error de redondeo flotante)
	CategoryID  string          // vacío si no tiene categoría
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone devuelve una copia del producto (los stores nunca exponen punteros internos).
func (p *Product) Clone() *Product {
	cp := *p
	return &cp
}
