package dto

// StockMovementRequest body para POST /api/stock/ingress y /api/stock/egress.
type StockMovementRequest struct {
	ProductID string `json:"product_id"`
	StorageID string `json:"storage_id"`
	Quantity  int    `json:"quantity"`
}

// TransferRequest body para POST /api/stock/transfer.
type TransferRequest struct {
	FromStockID string `json:"from_stock_id"`
	ToStorageID string `json:"to_storage_id"`
	Quantity    int    `json:"quantity"`
}
