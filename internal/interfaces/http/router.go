package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	SweetUC    *usecase.SweetUseCase
	PurchaseUC *inventory.PurchaseUseCase
	RestockUC  *inventory.RestockUseCase
	Health     Pinger
	JWTSecret  string
	AppName    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", NewHealthHandler(deps.Health, deps.AppName).Check)

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Sweets: lectura para autenticados, escritura solo admin.
	// /search va antes de /:id para que no se tome "search" como id.
	sweets := api.Group("/sweets", requireAuth)
	sweetHandler := NewSweetHandler(deps.SweetUC)
	sweets.Get("/", sweetHandler.List)
	sweets.Get("/search", sweetHandler.Search)
	sweets.Get("/:id", sweetHandler.GetByID)
	sweets.Post("/", adminOnly, sweetHandler.Create)
	sweets.Put("/:id", adminOnly, sweetHandler.Update)
	sweets.Delete("/:id", adminOnly, sweetHandler.Delete)

	// Purchases (autenticado)
	purchases := api.Group("/purchases", requireAuth)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)

	// Restocks: crear solo admin, listar autenticado
	restocks := api.Group("/restocks", requireAuth)
	restockHandler := NewRestockHandler(deps.RestockUC)
	restocks.Post("/", adminOnly, restockHandler.Create)
	restocks.Get("/", restockHandler.List)
}
