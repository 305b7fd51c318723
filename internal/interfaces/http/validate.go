package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate instancia compartida del validador de structs (los DTOs llevan tags `validate`).
var validate = validator.New()

// validationMessage arma un mensaje legible a partir de los errores del validador.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "entrada inválida"
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, strings.ToLower(fe.Field())+": falla la regla '"+fe.Tag()+"'")
	}
	return strings.Join(parts, "; ")
}
