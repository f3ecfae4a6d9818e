package application

import (
	"context"

	orderdom "github.com/veerananda/Stock-Deduction-Service/internal/order/domain"
)

// OrderStatusReader is the read-only view of the order store the worker
// consumes. Cancellation and completion writes belong to other flows.
type OrderStatusReader interface {
	GetStatus(ctx context.Context, id string) (orderdom.OrderStatus, bool, error)
}

// Ledger is the subset of the inventory ledger the worker needs.
type Ledger interface {
	Deduct(ctx context.Context, sku string, qty int) (ok bool, remaining int, err error)
}
