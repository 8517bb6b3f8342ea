// Package query implementa el motor de consulta del catálogo: composición
// conjuntiva de filtros, ordenamiento determinista y ventana de paginación.
// Se implementa una sola vez y lo reutilizan todas las operaciones de listado.
package query

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campos de ordenamiento soportados para productos.
const (
	SortByName      = "name"
	SortBySKU       = "sku"
	SortByPrice     = "price"
	SortByQuantity  = "quantity"
	SortByCreatedAt = "created_at"
)

// Valores por defecto de paginación.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Sort define el campo y la dirección de ordenamiento.
// El desempate siempre es por ID ascendente para que el resultado sea determinista.
type Sort struct {
	Field string
	Desc  bool
}

// Normalize aplica el campo por defecto (name ascendente) si no se indicó ninguno.
func (s Sort) Normalize() Sort {
	if s.Field == "" {
		s.Field = SortByName
	}
	return s
}

// Page es la ventana solicitada: índice de página basado en cero y tamaño.
type Page struct {
	Index int
	Size  int
}

// Normalize aplica los valores por defecto (página 0, tamaño 10, tope 100).
func (p Page) Normalize() Page {
	if p.Index < 0 {
		p.Index = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Window devuelve los límites [lo, hi) de la página sobre un total de elementos.
// Una página más allá del final devuelve una ventana vacía, nunca un error.
func (p Page) Window(total int) (lo, hi int) {
	p = p.Normalize()
	lo = p.Index * p.Size
	if lo >= total {
		return total, total
	}
	hi = lo + p.Size
	if hi > total {
		hi = total
	}
	return lo, hi
}

// ProductFilter es una conjunción de predicados sobre productos: toda dimensión
// presente debe cumplirse. Los rangos son inclusivos en ambos extremos.
type ProductFilter struct {
	Keyword       string          // substring, insensible a mayúsculas, sobre name OR sku OR description
	MinPrice      decimal.Decimal // ignorado si MinPriceSet == false
	MaxPrice      decimal.Decimal
	MinPriceSet   bool
	MaxPriceSet   bool
	QuantityBelow *int     // quantity < *QuantityBelow
	MinQuantity   *int     // quantity >= *MinQuantity
	MaxQuantity   *int     // quantity <= *MaxQuantity
	OutOfStock    bool     // quantity == 0
	CategoryIDs   []string // pertenencia a cualquiera de estas categorías
	Uncategorized bool     // sin categoría asignada
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// IsZero indica que no hay ninguna dimensión de filtro activa.
func (f ProductFilter) IsZero() bool {
	return f.Keyword == "" && !f.MinPriceSet && !f.MaxPriceSet &&
		f.QuantityBelow == nil && f.MinQuantity == nil && f.MaxQuantity == nil &&
		!f.OutOfStock && len(f.CategoryIDs) == 0 &&
		!f.Uncategorized && f.CreatedFrom == nil && f.CreatedTo == nil
}

// CategoryFilter filtra categorías por substring del nombre (insensible a mayúsculas).
type CategoryFilter struct {
	Name string
}
