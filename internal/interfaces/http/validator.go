package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate instancia única de go-playground/validator para los DTOs de entrada.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct devuelve un mensaje "campo: regla" para la primera violación,
// o "" si el struct es válido.
func validateStruct(in any) string {
	err := validate.Struct(in)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return strings.ToLower(fe.Field()) + ": " + fe.Tag()
	}
	return err.Error()
}
