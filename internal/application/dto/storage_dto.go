package dto

// CreateStorageRequest body para POST /api/storages.
type CreateStorageRequest struct {
	Rag           string `json:"rag"`
	Site          string `json:"site"`
	Positions     int    `json:"positions"`
	TotalCapacity int    `json:"total_capacity,omitempty"`
}

// UpdateStorageRequest body para PUT /api/storages/:id.
type UpdateStorageRequest struct {
	Positions     *int  `json:"positions,omitempty"`
	TotalCapacity *int  `json:"total_capacity,omitempty"`
	Disabled      *bool `json:"disabled,omitempty"`
}
