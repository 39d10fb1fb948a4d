package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIngreso       = "Ingreso"
	MovementTypeEgreso        = "Egreso"
	MovementTypeTransferencia = "Transferencia"
	MovementTypeVenta         = "Venta"
)

// Movement es el registro de auditoría inmutable de cada mutación del ledger:
// se crea exactamente uno por operación y nunca se actualiza ni se borra.
// Quantity se guarda siempre positiva; Type indica la dirección.
type Movement struct {
	ID         string
	Date       time.Time
	Type       string
	Quantity   int
	StockID    string
	StorageID  string
	ProductID  string
	UserID     string
	BusinessID string
	CreatedAt  time.Time
}
