package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/fulfila/stock-api/internal/application/dto"
	"github.com/fulfila/stock-api/internal/application/report"
	"github.com/fulfila/stock-api/internal/domain"
)

// ReportHandler genera reportes descargables (protegido).
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// MovementsPDF godoc
// @Summary      Descargar PDF del historial de movimientos
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  true  "Fecha inicial RFC3339"
// @Param        to    query  string  true  "Fecha final RFC3339"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) MovementsPDF(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from es requerido en formato RFC3339"})
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to es requerido en formato RFC3339"})
	}
	pdf, err := h.uc.MovementsPDF(c.Context(), businessID, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="movimientos_%s_%s.pdf"`, from.Format("20060102"), to.Format("20060102")))
	return c.Send(pdf)
}
