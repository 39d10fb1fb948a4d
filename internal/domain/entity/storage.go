package entity

import "time"

// Storage representa una ubicación de bodega, única por (Rag, Site).
// Positions es la cantidad de posiciones válidas (numeradas desde 1):
// toda referencia "rag/site/pos" debe cumplir 1 <= pos <= Positions.
type Storage struct {
	ID              string
	Rag             string // zona
	Site            string // sub-zona
	Positions       int
	CurrentCapacity int
	TotalCapacity   int
	Disabled        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
