package entity

// Category representa una categoría de productos.
// La asociación con productos es débil: se deriva contando referencias
// Product.CategoryID, nunca cargando los productos en memoria.
type Category struct {
	ID          string
	Name        string // único (sensible a mayúsculas), máx. 100 caracteres
	Description string
}

// Clone devuelve una copia de la categoría.
func (c *Category) Clone() *Category {
	cp := *c
	return &cp
}
