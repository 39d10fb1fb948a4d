package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de publicación de un producto.
const (
	ProductStatusPublished  = "Published"
	ProductStatusHidden     = "Hidden"
	ProductStatusEmptyStock = "EmptyStock"
)

// Product representa un producto del catálogo de un Business.
// Clave única por (BusinessID, EAN, SKU). TotalStock es un agregado derivado:
// debe ser siempre igual a la suma de Stock.Amount del producto en todas las
// ubicaciones; lo mantiene cada mutación del ledger, nunca se recalcula lazy.
type Product struct {
	ID            string
	BusinessID    string
	EAN           string
	SKU           string
	Name          string
	Price         decimal.Decimal
	VolumeType    string
	Weight        decimal.Decimal // kg
	TotalStock    int
	ReservedStock int // reserva blanda por pedidos pendientes; nunca negativa
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
