package entity

import "time"

// Estados de una recepción.
const (
	ReceptionStatePendiente  = "Pendiente"
	ReceptionStateAprobado   = "Aprobado"
	ReceptionStateCompletado = "Completado"
)

// Reception es la variante simple de MovementOrder: mismo ciclo de
// creación/aprobación pero sin aplicación de stock al completarse.
type Reception struct {
	ID            string
	BusinessID    string
	Date          time.Time
	ReceptionDate *time.Time
	State         string
	SheetFile     string
	Remittance    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
