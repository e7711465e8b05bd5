package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// ErrorHandler traduce los errores que devuelven los handlers (dominio o fiber) a dto.ErrorResponse.
// Los errores no previstos se registran y al cliente solo le llega INTERNAL.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("request_id", GetRequestID(c)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error interno")
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		vErr     *domain.ValidationError
		stockErr *domain.InsufficientStockError
		fErr     *fiber.Error
	)
	switch {
	case errors.As(err, &vErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: vErr.Error()}
	case errors.As(err, &stockErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
			Details: dto.InsufficientStockDetails{
				SweetID:   stockErr.SweetID,
				Available: stockErr.Available,
				Requested: stockErr.Requested,
			},
		}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: err.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()}
	case errors.Is(err, domain.ErrSweetNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "SWEET_NOT_FOUND", Message: "producto no encontrado"}
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"}
	case errors.Is(err, domain.ErrSweetInUse):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "SWEET_HAS_HISTORY", Message: "el producto tiene compras o reabastecimientos registrados"}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un producto con ese nombre"}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.As(err, &fErr):
		return fiberError(fErr)
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

func fiberError(e *fiber.Error) (int, dto.ErrorResponse) {
	switch {
	case e.Code == fiber.StatusNotFound:
		return e.Code, dto.ErrorResponse{Code: "NOT_FOUND", Message: "ruta no encontrada"}
	case e.Code == fiber.StatusMethodNotAllowed:
		return e.Code, dto.ErrorResponse{Code: "METHOD_NOT_ALLOWED", Message: e.Message}
	case e.Code >= fiber.StatusInternalServerError:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	default:
		return e.Code, dto.ErrorResponse{Code: "BAD_REQUEST", Message: e.Message}
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero positivo"})
}
