package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/sweetshop-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar los campos con su nombre JSON (sweetId, customerName...).
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate aplica las etiquetas `validate` del struct y traduce el primer fallo a *domain.ValidationError.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("", err.Error())
	}
	fe := verrs[0]
	return domain.NewValidationError(fe.Field(), messageFor(fe))
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "debe ser un email válido"
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "gte":
		return "debe ser mayor o igual que " + fe.Param()
	case "lte":
		return "debe ser menor o igual que " + fe.Param()
	case "min":
		return "debe tener al menos " + fe.Param() + " caracteres"
	case "max":
		return "debe tener como máximo " + fe.Param() + " caracteres"
	default:
		return "es inválido"
	}
}
