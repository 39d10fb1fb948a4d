package dto

import (
	"github.com/fulfila/stock-api/internal/application/stock"
	"github.com/fulfila/stock-api/internal/domain/entity"
)

// CompleteOrderRequest body para POST /api/movement-orders/:id/complete.
// Las líneas llegan ya parseadas y diffeadas por el frontend de admin;
// target_state refleja el resultado de esa comparación: "Completado" si no
// hubo diferencias contra la planilla del vendedor, "Parcial" si las hubo.
type CompleteOrderRequest struct {
	LineItems   []stock.LineItem `json:"line_items"`
	TargetState string           `json:"target_state"`
}

// CompleteOrderResponse resultado de la reconciliación.
type CompleteOrderResponse struct {
	MovementOrder *entity.MovementOrder `json:"movement_order"`
	SuccessCount  int                   `json:"success_count"`
	State         string                `json:"state"`
}
