package entity

import "time"

// Business representa un vendedor del marketplace dueño de productos y órdenes.
type Business struct {
	ID        string
	Name      string
	TaxID     string // NIT/RUT del vendedor
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
