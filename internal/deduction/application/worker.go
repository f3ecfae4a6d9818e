package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/veerananda/Stock-Deduction-Service/internal/deduction/domain"
	orderdom "github.com/veerananda/Stock-Deduction-Service/internal/order/domain"
)

// Worker reconciles a deferred deduction task against live order state. Each
// run re-validates the order by identifier before touching the ledger: the
// snapshot carried by the task is stale by construction and only its ID and
// line items are trusted.
//
// A returned error means a processing fault (store or ledger unreachable) and
// the task should be retried by the delivery infrastructure. Order gone, order
// no longer pending and insufficient stock are expected outcomes, not errors.
type Worker struct {
	log    *slog.Logger
	orders OrderStatusReader
	ledger Ledger
}

func NewWorker(log *slog.Logger, orders OrderStatusReader, ledger Ledger) *Worker {
	return &Worker{log: log, orders: orders, ledger: ledger}
}

func (w *Worker) Process(ctx context.Context, snap orderdom.Snapshot) (domain.Result, error) {
	if snap.OrderID == "" || len(snap.Items) == 0 {
		return nil, fmt.Errorf("malformed snapshot: order_id=%q items=%d", snap.OrderID, len(snap.Items))
	}

	status, found, err := w.orders.GetStatus(ctx, snap.OrderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order status %s: %w", snap.OrderID, err)
	}

	result := make(domain.Result, len(snap.Items))
	if !found {
		for _, item := range snap.Items {
			result[item.SKU] = domain.SkippedOrderGone
		}
		w.log.Info("order gone, deduction skipped", "order_id", snap.OrderID)
		return result, nil
	}
	if status != orderdom.StatusPending {
		for _, item := range snap.Items {
			result[item.SKU] = domain.SkippedOrderNotPending
		}
		w.log.Info("order not pending, deduction skipped", "order_id", snap.OrderID, "status", status)
		return result, nil
	}

	// An item short on stock does not abort the rest of the order; each
	// deduction is independently atomic.
	for _, item := range snap.Items {
		ok, remaining, err := w.ledger.Deduct(ctx, item.SKU, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("deduct %s for order %s: %w", item.SKU, snap.OrderID, err)
		}
		if !ok {
			result[item.SKU] = domain.SkippedInsufficientStock
			w.log.Warn("insufficient stock", "order_id", snap.OrderID, "sku", item.SKU,
				"requested", item.Quantity, "available", remaining)
			continue
		}
		result[item.SKU] = domain.Deducted
		w.log.Info("stock deducted", "order_id", snap.OrderID, "sku", item.SKU,
			"quantity", item.Quantity, "remaining", remaining)
	}
	return result, nil
}
