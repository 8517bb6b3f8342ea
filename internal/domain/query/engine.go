package query

import (
	"sort"
	"strings"
	"time"

	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
)

// MatchProduct evalúa la conjunción de predicados del filtro sobre un producto.
// Asume entradas bien formadas: los rangos degenerados se rechazan antes,
// en la capa de validación.
func MatchProduct(p *entity.Product, f ProductFilter) bool {
	if f.Keyword != "" && !matchKeyword(p, f.Keyword) {
		return false
	}
	if f.MinPriceSet && p.Price.Cmp(f.MinPrice) < 0 {
		return false
	}
	if f.MaxPriceSet && p.Price.Cmp(f.MaxPrice) > 0 {
		return false
	}
	if f.QuantityBelow != nil && p.Quantity >= *f.QuantityBelow {
		return false
	}
	if f.MinQuantity != nil && p.Quantity < *f.MinQuantity {
		return false
	}
	if f.MaxQuantity != nil && p.Quantity > *f.MaxQuantity {
		return false
	}
	if f.OutOfStock && p.Quantity != 0 {
		return false
	}
	if len(f.CategoryIDs) > 0 && !containsString(f.CategoryIDs, p.CategoryID) {
		return false
	}
	if f.Uncategorized && p.CategoryID != "" {
		return false
	}
	if f.CreatedFrom != nil && p.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && p.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

// matchKeyword busca el substring en name, sku o description (OR entre los tres).
func matchKeyword(p *entity.Product, keyword string) bool {
	kw := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(p.Name), kw) ||
		strings.Contains(strings.ToLower(p.SKU), kw) ||
		strings.Contains(strings.ToLower(p.Description), kw)
}

// MatchCategory evalúa el filtro de categorías (substring insensible a mayúsculas).
func MatchCategory(c *entity.Category, f CategoryFilter) bool {
	if f.Name == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Name))
}

// OrderProducts ordena el slice in situ según el campo y la dirección.
// Empates rotos por ID ascendente, siempre, para un resultado determinista.
func OrderProducts(items []*entity.Product, s Sort) {
	s = s.Normalize()
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var cmp int
		switch s.Field {
		case SortBySKU:
			cmp = strings.Compare(a.SKU, b.SKU)
		case SortByPrice:
			cmp = a.Price.Cmp(b.Price)
		case SortByQuantity:
			cmp = compareInt(a.Quantity, b.Quantity)
		case SortByCreatedAt:
			cmp = compareTime(a.CreatedAt, b.CreatedAt)
		default: // SortByName
			cmp = strings.Compare(a.Name, b.Name)
		}
		if cmp == 0 {
			return a.ID < b.ID
		}
		if s.Desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

// OrderCategories ordena categorías por nombre (o ID) con desempate por ID.
func OrderCategories(items []*entity.Category, s Sort) {
	s = s.Normalize()
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var cmp int
		switch s.Field {
		case "id":
			cmp = strings.Compare(a.ID, b.ID)
		default: // name
			cmp = strings.Compare(a.Name, b.Name)
		}
		if cmp == 0 {
			return a.ID < b.ID
		}
		if s.Desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

// PageProducts aplica la ventana de paginación sobre el slice ya ordenado.
func PageProducts(items []*entity.Product, p Page) []*entity.Product {
	lo, hi := p.Window(len(items))
	return items[lo:hi]
}

// PageCategories aplica la ventana de paginación sobre el slice ya ordenado.
func PageCategories(items []*entity.Category, p Page) []*entity.Category {
	lo, hi := p.Window(len(items))
	return items[lo:hi]
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
