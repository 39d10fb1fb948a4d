package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/fulfila/stock-api/internal/application/dto"
	"github.com/fulfila/stock-api/internal/application/usecase"
	"github.com/fulfila/stock-api/internal/domain"
)

// StorageHandler maneja las peticiones HTTP de ubicaciones de bodega (protegido).
type StorageHandler struct {
	uc *usecase.StorageUseCase
}

// NewStorageHandler construye el handler.
func NewStorageHandler(uc *usecase.StorageUseCase) *StorageHandler {
	return &StorageHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ubicación de bodega
// @Tags         storages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStorageRequest  true  "rag, site, positions"
// @Success      201   {object}  entity.Storage
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/storages [post]
func (h *StorageHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStorageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	storage, err := h.uc.Create(in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rag, site y positions > 0 son requeridos"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe una ubicación con ese rag/site"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(storage)
}

// GetByID godoc
// @Summary      Obtener ubicación por ID
// @Tags         storages
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Storage ID"
// @Success      200  {object}  entity.Storage
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/storages/{id} [get]
func (h *StorageHandler) GetByID(c *fiber.Ctx) error {
	storage, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(storage)
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         storages
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  entity.Storage
// @Router       /api/storages [get]
func (h *StorageHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	storages, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(storages)
}

// Update godoc
// @Summary      Actualizar ubicación
// @Tags         storages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Storage ID"
// @Param        body  body  dto.UpdateStorageRequest  true  "campos a modificar"
// @Success      200   {object}  entity.Storage
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/storages/{id} [put]
func (h *StorageHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStorageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	storage, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "positions debe ser > 0"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(storage)
}
