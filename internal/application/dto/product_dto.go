package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	EAN        string          `json:"ean"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	VolumeType string          `json:"volume_type,omitempty"`
	Weight     decimal.Decimal `json:"weight,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. Campos nil/vacíos no
// se tocan; los agregados de stock nunca se editan por esta vía.
type UpdateProductRequest struct {
	Name       string           `json:"name,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	VolumeType string           `json:"volume_type,omitempty"`
	Weight     *decimal.Decimal `json:"weight,omitempty"`
	Status     string           `json:"status,omitempty"`
}
