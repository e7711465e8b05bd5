package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name        string
	CORSOrigins string // "*" o lista separada por comas
	SwaggerFile string // vacío o inexistente = sin /docs
}

// NewApp arma la aplicación Fiber: manejo de errores, request id + log, recover, CORS, Swagger y rutas.
func NewApp(cfg AppConfig, deps RouterDeps, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(RequestLogger(log))
	app.Use(recover.New())

	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: "X-Request-ID",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Sweet Shop API",
			}))
		} else {
			log.Warn().Str("file", cfg.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	Router(app, deps)
	return app
}
