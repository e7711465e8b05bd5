package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// RequestLogger asigna X-Request-ID (respeta el entrante) y registra método, ruta, status y latencia,
// más el user_id cuando la ruta pasó por AuthMiddleware.
// Los errores de la cadena se resuelven aquí con el ErrorHandler de la app para loguear el status final.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalRequestID, rid)
		c.Set(fiber.HeaderXRequestID, rid)

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		if uid := GetUserID(c); uid != 0 {
			ev = ev.Int64("user_id", uid)
		}
		ev.Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http")
		return nil
	}
}
