package repository

import (
	"time"

	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// Create y Update son el alcance de consistencia autoritativo: la violación del
// índice único de SKU o la referencia a una categoría inexistente se detectan al
// confirmar, nunca entre el chequeo previo y el commit. ExistsBySKU es solo el
// chequeo rápido consultivo.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id string) error
	ExistsBySKU(sku string) (bool, error)
	// AdjustQuantity aplica el delta dentro del alcance de consistencia del
	// store (lectura, guardia de negativo y escritura son una sola operación):
	// ajustes concurrentes nunca pierden deltas. Devuelve el producto actualizado;
	// un resultado negativo devuelve ErrInsufficientStock sin tocar nada.
	AdjustQuantity(id string, delta int, at time.Time) (*entity.Product, error)

	// List devuelve la página solicitada y el total de coincidencias.
	List(filter query.ProductFilter, sort query.Sort, page query.Page) ([]*entity.Product, int, error)
	// ListAll devuelve la secuencia completa ordenada, sin ventana (uso interno/reportes).
	ListAll(filter query.ProductFilter, sort query.Sort) ([]*entity.Product, error)
	// CountByCategory cuenta productos que referencian la categoría, sin cargarlos.
	CountByCategory(categoryID string) (int, error)
}
