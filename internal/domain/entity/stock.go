package entity

import "time"

// Stock representa la existencia de un producto en una ubicación (Storage).
// A lo sumo una fila por par (ProductID, StorageID). Amount es la cantidad
// física; Enabled la porción habilitada para venta. Un egreso a cero deja la
// fila con Amount = 0, nunca se borra desde el flujo de reconciliación.
type Stock struct {
	ID        string
	ProductID string
	StorageID string
	Amount    int
	Enabled   int
	IsFull    bool // derivado: Enabled > 0
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecalcIsFull recalcula el derivado IsFull tras mutar Enabled.
func (s *Stock) RecalcIsFull() {
	s.IsFull = s.Enabled > 0
}
