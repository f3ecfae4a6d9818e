package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/veerananda/Stock-Deduction-Service/internal/clock"
	"github.com/veerananda/Stock-Deduction-Service/internal/order/domain"
	"github.com/veerananda/Stock-Deduction-Service/pkg/delayq"
)

// Scheduler adapts the delay queue into the deduction scheduler the order
// service consumes. Every order gets the same fixed grace window; the window
// is not per-order configurable.
type Scheduler struct {
	log    *slog.Logger
	queue  delayq.Queue
	window time.Duration
	clk    clock.Clock
}

func New(log *slog.Logger, queue delayq.Queue, window time.Duration, clk clock.Clock) *Scheduler {
	return &Scheduler{log: log, queue: queue, window: window, clk: clk}
}

func (s *Scheduler) Schedule(ctx context.Context, snap domain.Snapshot) (string, error) {
	payload, err := snap.Marshal()
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	task := delayq.Task{
		ID:      uuid.NewString(),
		Key:     snap.OrderID,
		Payload: payload,
		FireAt:  s.clk.Now().Add(s.window),
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return "", fmt.Errorf("enqueue deduction task: %w", err)
	}
	s.log.Info("deduction scheduled", "order_id", snap.OrderID, "task_id", task.ID, "fire_at", task.FireAt)
	return task.ID, nil
}
