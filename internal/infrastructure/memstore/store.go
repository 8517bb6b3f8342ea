// Package memstore implementa el Entity Store en memoria. Todo el estado
// (entidades, índices únicos y conteos de asociación) vive bajo un único mutex,
// de modo que "chequear unicidad → confirmar" es una sola sección crítica: la
// restricción del índice es la señal autoritativa de duplicado, igual que el
// constraint UNIQUE del adaptador PostgreSQL.
package memstore

import (
	"sync"

	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
)

// Store contiene el estado compartido de productos, categorías e historial.
type Store struct {
	mu         sync.RWMutex
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	skuIndex   map[string]string // sku -> product id
	nameIndex  map[string]string // category name -> category id (sensible a mayúsculas)
	catRefs    map[string]int    // category id -> productos que la referencian
	history    map[string][]*entity.StockMovement
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		products:   make(map[string]*entity.Product),
		categories: make(map[string]*entity.Category),
		skuIndex:   make(map[string]string),
		nameIndex:  make(map[string]string),
		catRefs:    make(map[string]int),
		history:    make(map[string][]*entity.StockMovement),
	}
}

// Products devuelve la vista ProductRepository sobre el store.
func (s *Store) Products() *ProductStore {
	return &ProductStore{store: s}
}

// Categories devuelve la vista CategoryRepository sobre el store.
func (s *Store) Categories() *CategoryStore {
	return &CategoryStore{store: s}
}

// StockHistory devuelve la vista StockHistoryRepository sobre el store.
func (s *Store) StockHistory() *StockHistoryStore {
	return &StockHistoryStore{store: s}
}
