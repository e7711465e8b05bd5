package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrSweetNotFound      = errors.New("producto no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrSweetInUse         = fmt.Errorf("%w: el producto tiene compras o reabastecimientos registrados", ErrConflict)
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// ValidationError describe un campo de entrada inválido. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un error de validación para un campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InsufficientStockError se devuelve cuando una compra pide más unidades de las disponibles.
// Lleva ambas cantidades para que el cliente pueda mostrarlas.
type InsufficientStockError struct {
	SweetID   int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cantidad insuficiente. Disponible: %d, Solicitado: %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
