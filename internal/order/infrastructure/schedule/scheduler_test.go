package schedule

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/veerananda/Stock-Deduction-Service/internal/clock"
	"github.com/veerananda/Stock-Deduction-Service/internal/order/domain"
	"github.com/veerananda/Stock-Deduction-Service/pkg/delayq"
)

func TestScheduler_Schedule(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 5 * time.Minute
	queue := delayq.NewMemoryQueue()
	s := New(slog.New(slog.DiscardHandler), queue, window, clock.NewFixed(now))

	snap := domain.Snapshot{
		OrderID: "o1",
		Items:   []domain.LineItem{{SKU: "itemA", Quantity: 2}, {SKU: "itemB", Quantity: 100}},
	}
	taskID, err := s.Schedule(context.Background(), snap)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if taskID == "" {
		t.Fatalf("expected a task handle")
	}

	// Not due inside the grace window.
	due, err := queue.Due(context.Background(), now.Add(window-time.Second), 10)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected task held for the full window")
	}

	due, err = queue.Due(context.Background(), now.Add(window), 10)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected one due task, got %d", len(due))
	}

	task := due[0]
	if task.ID != taskID || task.Key != "o1" {
		t.Fatalf("unexpected task identity: %+v", task)
	}

	// The payload must carry the exact snapshot through the delay.
	got, err := domain.UnmarshalSnapshot(task.Payload)
	if err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.OrderID != snap.OrderID || len(got.Items) != 2 || got.Items[0] != snap.Items[0] || got.Items[1] != snap.Items[1] {
		t.Fatalf("snapshot changed in transit: %+v", got)
	}
}
