package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
)

// SweetHandler maneja el catálogo de productos.
type SweetHandler struct {
	uc *usecase.SweetUseCase
}

// NewSweetHandler construye el handler.
func NewSweetHandler(uc *usecase.SweetUseCase) *SweetHandler {
	return &SweetHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSweetRequest  true  "Datos del producto"
// @Success      201   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSweetRequest
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
// @Summary      Listar productos
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.SweetResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos
// @Description  Filtros opcionales combinados con AND; rangos inclusivos.
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        name      query  string  false  "Substring del nombre (sin distinguir mayúsculas)"
// @Param        minPrice  query  number  false  "Precio mínimo"
// @Param        maxPrice  query  number  false  "Precio máximo"
// @Param        minQty    query  int     false  "Cantidad mínima"
// @Param        maxQty    query  int     false  "Cantidad máxima"
// @Success      200  {array}   dto.SweetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sweets/search [get]
func (h *SweetHandler) Search(c *fiber.Ctx) error {
	var q dto.SearchSweetsQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Search(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.SweetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [get]
func (h *SweetHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (parcial)
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID del producto"
// @Param        body  body  dto.UpdateSweetRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [put]
func (h *SweetHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.UpdateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         sweets
// @Security     Bearer
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [delete]
func (h *SweetHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}
