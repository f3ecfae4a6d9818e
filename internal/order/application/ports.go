package application

import (
	"context"

	"github.com/veerananda/Stock-Deduction-Service/internal/order/domain"
)

type OrderRepository interface {
	Save(ctx context.Context, o domain.Order) error
	GetByID(ctx context.Context, id string) (domain.Order, bool, error)
	GetStatus(ctx context.Context, id string) (domain.OrderStatus, bool, error)
	// Transition updates status only when the current status matches from,
	// reporting whether a row changed. This guard is what makes the worker's
	// pending check authoritative.
	Transition(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error)
}

type DeductionScheduler interface {
	Schedule(ctx context.Context, snap domain.Snapshot) (taskID string, err error)
}
