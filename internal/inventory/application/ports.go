package application

import (
	"context"

	"github.com/veerananda/Stock-Deduction-Service/internal/inventory/domain"
)

// Ledger is the write side of stock accounting. Deduct must be atomic with
// respect to concurrent deductions of the same SKU: two orders deducting the
// same item serialize so neither oversells. If qty exceeds the available
// quantity the call returns ok=false and leaves stock unchanged.
type Ledger interface {
	Deduct(ctx context.Context, sku string, qty int) (ok bool, remaining int, err error)
	SetStock(ctx context.Context, sku string, qty int) error
	GetStock(ctx context.Context, sku string) (domain.StockLevel, error)
}
