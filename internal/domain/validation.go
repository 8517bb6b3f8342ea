package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
)

// Límites de campos del catálogo.
const (
	MaxNameLen        = 100
	MaxSKULen         = 20
	MaxDescriptionLen = 500
)

// ValidateProduct verifica las restricciones estáticas de un producto candidato.
// Es puro: no consulta el store ni muta nada. La unicidad del SKU y la existencia
// de la categoría se verifican aparte, dentro del alcance de consistencia del store.
func ValidateProduct(p *entity.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "es requerido")
	}
	if len(p.Name) > MaxNameLen {
		return NewValidationError("name", "supera el máximo de 100 caracteres")
	}
	if strings.TrimSpace(p.SKU) == "" {
		return NewValidationError("sku", "es requerido")
	}
	if len(p.SKU) > MaxSKULen {
		return NewValidationError("sku", "supera el máximo de 20 caracteres")
	}
	if len(p.Description) > MaxDescriptionLen {
		return NewValidationError("description", "supera el máximo de 500 caracteres")
	}
	if p.Quantity < 0 {
		return NewValidationError("quantity", "no puede ser negativa")
	}
	if p.Price.IsNegative() {
		return NewValidationError("price", "no puede ser negativo")
	}
	return nil
}

// ValidateCategory verifica las restricciones estáticas de una categoría candidata.
func ValidateCategory(c *entity.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "es requerido")
	}
	if len(c.Name) > MaxNameLen {
		return NewValidationError("name", "supera el máximo de 100 caracteres")
	}
	if len(c.Description) > MaxDescriptionLen {
		return NewValidationError("description", "supera el máximo de 500 caracteres")
	}
	return nil
}

// ValidateProductFilter rechaza filtros mal formados antes de que lleguen al motor
// de consulta: rangos degenerados (min > max) y umbrales negativos.
func ValidateProductFilter(f query.ProductFilter) error {
	if f.MinPriceSet && f.MinPrice.IsNegative() {
		return NewValidationError("minPrice", "no puede ser negativo")
	}
	if f.MaxPriceSet && f.MaxPrice.IsNegative() {
		return NewValidationError("maxPrice", "no puede ser negativo")
	}
	if f.MinPriceSet && f.MaxPriceSet && f.MinPrice.Cmp(f.MaxPrice) > 0 {
		return NewValidationError("minPrice", "no puede ser mayor que maxPrice")
	}
	if f.QuantityBelow != nil && *f.QuantityBelow < 0 {
		return NewValidationError("threshold", "no puede ser negativo")
	}
	if f.MinQuantity != nil && *f.MinQuantity < 0 {
		return NewValidationError("minQuantity", "no puede ser negativa")
	}
	if f.MaxQuantity != nil && *f.MaxQuantity < 0 {
		return NewValidationError("maxQuantity", "no puede ser negativa")
	}
	if f.MinQuantity != nil && f.MaxQuantity != nil && *f.MinQuantity > *f.MaxQuantity {
		return NewValidationError("minQuantity", "no puede ser mayor que maxQuantity")
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return NewValidationError("from", "no puede ser posterior a to")
	}
	return nil
}

// ValidatePriceRange verifica el rango de precios de la operación price-range.
func ValidatePriceRange(min, max decimal.Decimal) error {
	if min.IsNegative() || max.IsNegative() {
		return NewValidationError("minPrice", "el precio no puede ser negativo")
	}
	if min.Cmp(max) > 0 {
		return NewValidationError("minPrice", "no puede ser mayor que maxPrice")
	}
	return nil
}

// ValidateThreshold verifica el umbral de stock bajo.
func ValidateThreshold(threshold int) error {
	if threshold < 0 {
		return NewValidationError("threshold", "no puede ser negativo")
	}
	return nil
}
