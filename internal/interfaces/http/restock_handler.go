package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain"
)

// RestockHandler maneja reabastecimientos (crear: admin; listar: autenticado).
type RestockHandler struct {
	uc *inventory.RestockUseCase
}

// NewRestockHandler construye el handler.
func NewRestockHandler(uc *inventory.RestockUseCase) *RestockHandler {
	return &RestockHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar reabastecimiento
// @Tags         restocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRestockRequest  true  "sweetId, quantity, restockDate, notes"
// @Success      201   {object}  dto.RestockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/restocks [post]
func (h *RestockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRestockRequest
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
// @Summary      Listar reabastecimientos (fecha descendente)
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Param        sweetId  query  int  false  "Filtrar por producto"
// @Success      200  {array}   dto.RestockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/restocks [get]
func (h *RestockHandler) List(c *fiber.Ctx) error {
	var sweetID *int64
	if raw := strings.TrimSpace(c.Query("sweetId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return domain.NewValidationError("sweetId", "debe ser un entero positivo")
		}
		sweetID = &id
	}
	out, err := h.uc.List(c.UserContext(), sweetID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
