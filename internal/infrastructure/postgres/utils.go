package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/sweetshop-api/internal/domain"
)

// Códigos SQLSTATE usados por los repositorios.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// isForeignKeyViolation: se intenta borrar un producto con compras/reabastecimientos (ON DELETE RESTRICT).
func isForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// isCheckViolation: CHECK (quantity >= 0) u otro check de la tabla.
func isCheckViolation(err error) bool {
	return hasCode(err, codeCheckViolation)
}

// isOutOfRange: el valor no cabe en INTEGER o NUMERIC(12,2).
func isOutOfRange(err error) bool {
	return hasCode(err, codeNumericOutOfRange)
}

// errOutOfRange traduce 22003 a un error de validación (400) en lugar de un error interno.
func errOutOfRange(field string) error {
	return domain.NewValidationError(field, "valor fuera de rango")
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// escapeLike escapa los comodines de LIKE para buscar el texto literal (usar con ESCAPE '\').
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
