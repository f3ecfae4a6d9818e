package domain

import "time"

// StockLevel is the available quantity for one menu item. Available never
// goes negative: a deduction larger than Available is rejected whole.
type StockLevel struct {
	SKU       string    `json:"sku"`
	Available int       `json:"available"`
	UpdatedAt time.Time `json:"updated_at"`
}
