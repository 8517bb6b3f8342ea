package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Todos son terminales: reintentar con la misma entrada reproduce el mismo error.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicateSKU      = errors.New("ya existe un producto con ese SKU")
	ErrDuplicateName     = errors.New("ya existe una categoría con ese nombre")
	ErrCategoryNotFound  = errors.New("la categoría referenciada no existe")
	ErrCategoryInUse     = errors.New("la categoría tiene productos asociados")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError señala el campo que violó una restricción estática.
// errors.Is(err, ErrInvalidInput) == true para cualquier ValidationError.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "entrada inválida: " + e.Field + ": " + e.Reason
}

// Unwrap permite el match con ErrInvalidInput vía errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError construye la violación de un campo.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
