package dto

// CreateBusinessRequest body para POST /api/businesses.
type CreateBusinessRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email,omitempty"`
}
