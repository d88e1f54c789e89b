package models

// OrderRequest is the body of POST /api/order.
// Older storefront builds send stock/showroom/basement instead of available;
// both shapes are accepted.
type OrderRequest struct {
	Tire      string `json:"tire"`
	Size      string `json:"size"`
	LoadIndex string `json:"loadIndex,omitempty"`
	Price     Number `json:"price"`
	Quantity  Number `json:"quantity"`
	Total     Number `json:"total"`
	Customer  string `json:"customer"`
	Phone     string `json:"phone"`

	Available Number `json:"available"`
	Stock     Number `json:"stock"`
	Showroom  Number `json:"showroom"`
	Basement  Number `json:"basement"`
}

// OrderRecord is an accepted order as it is announced to the shop operator.
// It only lives for the duration of the request.
type OrderRecord struct {
	OrderID       string
	OrderDateTime string
	Tire          string
	Size          string
	LoadIndex     string
	Price         Number
	Quantity      Number
	Total         Number
	Customer      string
	Phone         string
	Available     int
}

// OrderResponse is returned to the storefront on success.
type OrderResponse struct {
	Success       bool   `json:"success"`
	OrderID       string `json:"orderId"`
	OrderDateTime string `json:"orderDateTime"`
}
