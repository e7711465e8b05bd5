package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
)

// PurchaseHandler maneja ventas (cualquier usuario autenticado).
type PurchaseHandler struct {
	uc *inventory.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *inventory.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar compra
// @Description  Descuenta el stock y guarda la compra en una transacción. Sin stock suficiente responde 400 INSUFFICIENT_STOCK con disponible y solicitado.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "sweetId, quantity, customerName"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar compras (más recientes primero)
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PurchaseResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
