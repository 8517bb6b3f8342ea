package dto

import (
	"strings"

	"github.com/tu-usuario/catalogo-api/internal/domain/query"
)

// PageRequest parámetros de paginación y orden comunes a todos los listados.
// La página es basada en cero; el tamaño por defecto es 10 (tope 100).
type PageRequest struct {
	Page      int    `query:"page" validate:"min=0"`
	Size      int    `query:"size" validate:"min=0,max=100"`
	SortBy    string `query:"sortBy"`
	Direction string `query:"direction" validate:"omitempty,oneof=asc desc"`
}

// ToQuery traduce los parámetros al contrato del motor de consulta.
// defaultSort es el campo de orden de la operación (name salvo que la
// operación indique otro, ej. price-range ordena por price).
func (p PageRequest) ToQuery(defaultSort string) (query.Sort, query.Page) {
	sortBy := p.SortBy
	switch sortBy {
	case query.SortByName, query.SortBySKU, query.SortByPrice, query.SortByQuantity, query.SortByCreatedAt:
	case "createdAt":
		sortBy = query.SortByCreatedAt
	default:
		sortBy = defaultSort
	}
	s := query.Sort{
		Field: sortBy,
		Desc:  strings.EqualFold(p.Direction, "desc"),
	}
	return s, query.Page{Index: p.Page, Size: p.Size}.Normalize()
}

// PageResponse metadatos de página en las respuestas de listado.
type PageResponse struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse calcula los metadatos a partir de la ventana y el total.
func NewPageResponse(page query.Page, total int) PageResponse {
	page = page.Normalize()
	totalPages := (total + page.Size - 1) / page.Size
	return PageResponse{Page: page.Index, Size: page.Size, Total: total, TotalPages: totalPages}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
