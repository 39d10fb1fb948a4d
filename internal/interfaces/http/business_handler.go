package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/fulfila/stock-api/internal/application/dto"
	"github.com/fulfila/stock-api/internal/application/usecase"
	"github.com/fulfila/stock-api/internal/domain"
)

// BusinessHandler maneja las peticiones HTTP de businesses (vendedores).
type BusinessHandler struct {
	uc *usecase.BusinessUseCase
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *usecase.BusinessUseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar business
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBusinessRequest  true  "name, tax_id"
// @Success      201   {object}  entity.Business
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/businesses [post]
func (h *BusinessHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBusinessRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	business, err := h.uc.Create(in)
	if err != nil {
		if errors.Is(err, domain.ErrMissingParameter) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y tax_id son requeridos"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un business con ese tax_id"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(business)
}

// GetByID godoc
// @Summary      Obtener business por ID
// @Tags         businesses
// @Produce      json
// @Param        id  path  string  true  "Business ID"
// @Success      200  {object}  entity.Business
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/businesses/{id} [get]
func (h *BusinessHandler) GetByID(c *fiber.Ctx) error {
	business, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "business no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(business)
}

// List godoc
// @Summary      Listar businesses
// @Tags         businesses
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  entity.Business
// @Router       /api/businesses [get]
func (h *BusinessHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}
