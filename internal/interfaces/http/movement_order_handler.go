package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/fulfila/stock-api/internal/application/dto"
	"github.com/fulfila/stock-api/internal/application/movementorder"
	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/location"
)

// FileStore puerto mínimo del blob store usado por los handlers de upload.
type FileStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Open(relPath string) (io.ReadCloser, error)
}

// MovementOrderHandler maneja el ciclo de vida de las órdenes de movimiento
// (protegido). La creación recibe multipart con la planilla del vendedor y,
// para ENTRADA, el remito.
type MovementOrderHandler struct {
	uc    *movementorder.UseCase
	files FileStore
}

// NewMovementOrderHandler construye el handler.
func NewMovementOrderHandler(uc *movementorder.UseCase, files FileStore) *MovementOrderHandler {
	return &MovementOrderHandler{uc: uc, files: files}
}

// mapOrderError traduce la taxonomía de errores del ciclo de vida de órdenes.
func mapOrderError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	}
	var outOfRange *domain.PositionOutOfRangeError
	if errors.As(err, &outOfRange) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "POSITION_OUT_OF_RANGE", Message: err.Error()})
	}
	var badLocation *location.FormatError
	if errors.As(err, &badLocation) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_LOCATION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrMissingParameter) || errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidQuantity) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrInvalidState) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Create godoc
// @Summary      Crear orden de movimiento
// @Description  Multipart: type (ENTRADA|SALIDA), sheet_file (planilla, siempre)
//
//	y remittance (remito, obligatorio para ENTRADA).
//
// @Tags         movement-orders
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        type        formData  string  true   "ENTRADA | SALIDA"
// @Param        sheet_file  formData  file    true   "Planilla del vendedor"
// @Param        remittance  formData  file    false  "Remito (obligatorio para ENTRADA)"
// @Success      201  {object}  entity.MovementOrder
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movement-orders [post]
func (h *MovementOrderHandler) Create(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orderType := c.FormValue("type")

	sheetPath, err := h.saveFormFile(c, "sheet_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sheet_file es requerido"})
	}
	// El remito es opcional a nivel de form; el caso de uso decide si el
	// tipo de orden lo exige.
	remittancePath, _ := h.saveFormFile(c, "remittance")

	order, err := h.uc.CreateOrder(c.Context(), movementorder.CreateOrderInput{
		BusinessID: businessID,
		Type:       orderType,
		SheetFile:  sheetPath,
		Remittance: remittancePath,
	})
	if err != nil {
		return mapOrderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *MovementOrderHandler) saveFormFile(c *fiber.Ctx, field string) (string, error) {
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
// @Summary      Aprobar orden de movimiento
// @Tags         movement-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "MovementOrder ID"
// @Success      200  {object}  entity.MovementOrder
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movement-orders/{id}/approve [post]
func (h *MovementOrderHandler) Approve(c *fiber.Ctx) error {
	order, err := h.uc.ApproveOrder(c.Context(), c.Params("id"))
	if err != nil {
		return mapOrderError(c, err)
	}
	return c.JSON(order)
}

// Complete godoc
// @Summary      Reconciliar y cerrar orden de movimiento
// @Description  Aplica el batch de líneas al ledger en una sola transacción:
//
//	o todas las líneas impactan el stock y la orden pasa a
//	target_state, o ninguna lo hace y la orden queda Aprobado.
//
// @Tags         movement-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "MovementOrder ID"
// @Param        body  body  dto.CompleteOrderRequest  true  "line_items, target_state (Completado|Parcial)"
// @Success      200   {object}  dto.CompleteOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movement-orders/{id}/complete [post]
func (h *MovementOrderHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.CompleteOrder(c.Context(), movementorder.CompleteOrderInput{
		OrderID:     c.Params("id"),
		Lines:       in.LineItems,
		ActorID:     GetUserID(c),
		TargetState: in.TargetState,
	})
	if err != nil {
		return mapOrderError(c, err)
	}
	return c.JSON(dto.CompleteOrderResponse{
		MovementOrder: res.Order,
		SuccessCount:  res.SuccessCount,
		State:         res.State,
	})
}

// GetByID godoc
// @Summary      Obtener orden de movimiento por ID
// @Tags         movement-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "MovementOrder ID"
// @Success      200  {object}  entity.MovementOrder
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movement-orders/{id} [get]
func (h *MovementOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return mapOrderError(c, err)
	}
	return c.JSON(order)
}

// List godoc
// @Summary      Listar órdenes del business autenticado
// @Tags         movement-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  entity.MovementOrder
// @Router       /api/movement-orders [get]
func (h *MovementOrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	orders, err := h.uc.ListOrders(c.Context(), GetBusinessID(c), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(orders)
}

// ListPending godoc
// @Summary      Listar órdenes pendientes de todos los businesses (admin)
// @Tags         movement-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  entity.MovementOrder
// @Router       /api/movement-orders/pending [get]
func (h *MovementOrderHandler) ListPending(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	orders, err := h.uc.ListPending(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(orders)
}

// Delete godoc
// @Summary      Eliminar orden de movimiento (admin, no toca stock)
// @Tags         movement-orders
// @Security     Bearer
// @Param        id  path  string  true  "MovementOrder ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movement-orders/{id} [delete]
func (h *MovementOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteOrder(c.Context(), c.Params("id")); err != nil {
		return mapOrderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
