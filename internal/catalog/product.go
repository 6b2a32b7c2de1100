package catalog

import "github.com/shopspring/decimal"

// Product is immutable reference data: rows are seeded by migrations at
// startup and never written at runtime.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
}
