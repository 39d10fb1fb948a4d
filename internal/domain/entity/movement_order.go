package entity

import "time"

// Tipos de orden de movimiento.
const (
	MovementOrderTypeEntrada = "ENTRADA"
	MovementOrderTypeSalida  = "SALIDA"
)

// Estados de una orden de movimiento. Completado y Parcial son terminales:
// después de ellos no hay más transiciones que afecten stock.
const (
	MovementOrderStatePendiente  = "Pendiente"
	MovementOrderStateAprobado   = "Aprobado"
	MovementOrderStateEnRevision = "En revisión"
	MovementOrderStateParcial    = "Parcial"
	MovementOrderStateCompletado = "Completado"
)

// MovementOrder es una solicitud masiva de ingreso/egreso de inventario
// respaldada por una planilla: el vendedor la crea Pendiente, el admin la
// aprueba y el motor de reconciliación la lleva a Completado o Parcial.
type MovementOrder struct {
	ID            string
	BusinessID    string
	Date          time.Time
	ReceptionDate *time.Time // se fija al aprobar
	Type          string     // ENTRADA | SALIDA
	State         string
	SheetFile     string // planilla subida por el vendedor
	Remittance    string // remito; obligatorio para ENTRADA
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsTerminal indica si el estado actual ya no admite efectos de stock.
func (o *MovementOrder) IsTerminal() bool {
	return o.State == MovementOrderStateCompletado || o.State == MovementOrderStateParcial
}
