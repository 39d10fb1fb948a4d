package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/fulfila/stock-api/internal/application/dto"
	"github.com/fulfila/stock-api/internal/application/reception"
)

// ReceptionHandler maneja el flujo de recepciones (protegido). Mismo ciclo
// Pendiente -> Aprobado -> Completado que las órdenes, pero sin impacto en
// el ledger al cierre.
type ReceptionHandler struct {
	uc    *reception.UseCase
	files FileStore
}

// NewReceptionHandler construye el handler.
func NewReceptionHandler(uc *reception.UseCase, files FileStore) *ReceptionHandler {
	return &ReceptionHandler{uc: uc, files: files}
}

// Create godoc
// @Summary      Crear recepción
// @Tags         receptions
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        sheet_file  formData  file  true   "Planilla"
// @Param        remittance  formData  file  false  "Remito"
// @Success      201  {object}  entity.Reception
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/receptions [post]
func (h *ReceptionHandler) Create(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	sheetPath, err := h.saveFormFile(c, "sheet_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sheet_file es requerido"})
	}
	remittancePath, _ := h.saveFormFile(c, "remittance")

	rec, err := h.uc.Create(c.Context(), reception.CreateInput{
		BusinessID: businessID,
		SheetFile:  sheetPath,
		Remittance: remittancePath,
	})
	if err != nil {
		return mapOrderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *ReceptionHandler) saveFormFile(c *fiber.Ctx, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", err
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.files.Save(fh.Filename, f)
}

// Approve godoc
// @Summary      Aprobar recepción
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Reception ID"
// @Success      200  {object}  entity.Reception
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receptions/{id}/approve [post]
func (h *ReceptionHandler) Approve(c *fiber.Ctx) error {
	rec, err := h.uc.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return mapOrderError(c, err)
	}
	return c.JSON(rec)
}

// Complete godoc
// @Summary      Cerrar recepción (sin impacto en stock)
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Reception ID"
// @Success      200  {object}  entity.Reception
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receptions/{id}/complete [post]
func (h *ReceptionHandler) Complete(c *fiber.Ctx) error {
	rec, err := h.uc.Complete(c.Context(), c.Params("id"))
	if err != nil {
		return mapOrderError(c, err)
	}
	return c.JSON(rec)
}

// List godoc
// @Summary      Listar recepciones del business autenticado
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  entity.Reception
// @Router       /api/receptions [get]
func (h *ReceptionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), GetBusinessID(c), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}
