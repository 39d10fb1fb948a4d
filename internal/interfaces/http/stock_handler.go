package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/fulfila/stock-api/internal/application/dto"
	"github.com/fulfila/stock-api/internal/application/stock"
	"github.com/fulfila/stock-api/internal/domain"
)

// StockHandler maneja las mutaciones directas del ledger de stock y sus
// consultas (protegido).
type StockHandler struct {
	ledger *stock.Ledger
	query  *stock.Query
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.Ledger, query *stock.Query) *StockHandler {
	return &StockHandler{ledger: ledger, query: query}
}

// mapLedgerError traduce los errores del ledger a respuestas HTTP. Centralizado
// porque ingress, egress y transfer comparten la misma taxonomía.
func mapLedgerError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()})
	}
	if errors.Is(err, domain.ErrInvalidQuantity) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser > 0"})
	}
	if errors.Is(err, domain.ErrSameStorage) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SAME_STORAGE", Message: "origen y destino son la misma ubicación"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Ingress godoc
// @Summary      Registrar ingreso directo de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, storage_id, quantity"
// @Success      201   {object}  stock.MovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/ingress [post]
func (h *StockHandler) Ingress(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.ledger.Ingress(c.Context(), stock.MovementInput{
		ProductID:  in.ProductID,
		StorageID:  in.StorageID,
		Quantity:   in.Quantity,
		ActorID:    GetUserID(c),
		BusinessID: GetBusinessID(c),
	})
	if err != nil {
		return mapLedgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Egress godoc
// @Summary      Registrar egreso directo de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, storage_id, quantity"
// @Success      201   {object}  stock.MovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/egress [post]
func (h *StockHandler) Egress(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.ledger.Egress(c.Context(), stock.MovementInput{
		ProductID:  in.ProductID,
		StorageID:  in.StorageID,
		Quantity:   in.Quantity,
		ActorID:    GetUserID(c),
		BusinessID: GetBusinessID(c),
	})
	if err != nil {
		return mapLedgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Transfer godoc
// @Summary      Transferir stock entre ubicaciones
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "from_stock_id, to_storage_id, quantity"
// @Success      201   {object}  stock.TransferResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.ledger.Transfer(c.Context(), stock.TransferInput{
		Date:        time.Now(),
		Quantity:    in.Quantity,
		FromStockID: in.FromStockID,
		ToStorageID: in.ToStorageID,
		ActorID:     GetUserID(c),
		BusinessID:  GetBusinessID(c),
	})
	if err != nil {
		return mapLedgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// StocksByProduct godoc
// @Summary      Stock por ubicación de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "Product ID"
// @Success      200  {array}  entity.Stock
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/product/{productId} [get]
func (h *StockHandler) StocksByProduct(c *fiber.Ctx) error {
	stocks, err := h.query.StocksByProduct(c.Context(), GetBusinessID(c), c.Params("productId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el producto pertenece a otro business"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(stocks)
}

// movementFilters extrae el rango de fechas y la paginación comunes a los
// listados de movimientos.
func movementFilters(c *fiber.Ctx) (from, to *time.Time, limit, offset int, err error) {
	var page dto.PageRequest
	if err = c.QueryParser(&page); err != nil {
		return nil, nil, 0, 0, err
	}
	page.DefaultPage()
	if raw := c.Query("from"); raw != "" {
		t, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return nil, nil, 0, 0, perr
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return nil, nil, 0, 0, perr
		}
		to = &t
	}
	return from, to, page.Limit, page.Offset, nil
}

// MovementsByProduct godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "Product ID"
// @Param        from       query  string  false  "Fecha inicial RFC3339"
// @Param        to         query  string  false  "Fecha final RFC3339"
// @Success      200  {array}  entity.Movement
// @Router       /api/stock/movements/product/{productId} [get]
func (h *StockHandler) MovementsByProduct(c *fiber.Ctx) error {
	from, to, limit, offset, err := movementFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos: use fechas RFC3339"})
	}
	movements, err := h.query.MovementsByProduct(c.Context(), c.Params("productId"), from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(movements)
}

// MovementsByStorage godoc
// @Summary      Historial de movimientos de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        storageId  path   string  true   "Storage ID"
// @Param        from       query  string  false  "Fecha inicial RFC3339"
// @Param        to         query  string  false  "Fecha final RFC3339"
// @Success      200  {array}  entity.Movement
// @Router       /api/stock/movements/storage/{storageId} [get]
func (h *StockHandler) MovementsByStorage(c *fiber.Ctx) error {
	from, to, limit, offset, err := movementFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos: use fechas RFC3339"})
	}
	movements, err := h.query.MovementsByStorage(c.Context(), c.Params("storageId"), from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(movements)
}

// MovementsByBusiness godoc
// @Summary      Historial de movimientos del business autenticado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial RFC3339"
// @Param        to    query  string  false  "Fecha final RFC3339"
// @Success      200  {array}  entity.Movement
// @Router       /api/stock/movements [get]
func (h *StockHandler) MovementsByBusiness(c *fiber.Ctx) error {
	from, to, limit, offset, err := movementFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos: use fechas RFC3339"})
	}
	movements, err := h.query.MovementsByBusiness(c.Context(), GetBusinessID(c), from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(movements)
}
