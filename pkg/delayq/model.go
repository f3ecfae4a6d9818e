package delayq

import (
	"context"
	"encoding/json"
	"time"
)

// Task is one delayed unit of work. Payload is carried opaquely and must
// round-trip through the queue unchanged.
type Task struct {
	ID       string          `json:"id"`
	Key      string          `json:"key"`
	Payload  json.RawMessage `json:"payload"`
	FireAt   time.Time       `json:"fire_at"`
	Attempts int             `json:"attempts"`
}

// Queue stores tasks until their fire time. Due is a claiming pop: a task
// returned to one poller is not returned to another, and the claim itself is
// at-most-once: a claimant that dies between Due and handoff loses the task.
// Callers that cannot hand a claimed task off must put it back with Requeue.
// Consumers downstream must still tolerate duplicates (a handoff may succeed
// without the claimant observing it).
type Queue interface {
	Enqueue(ctx context.Context, t Task) error
	Due(ctx context.Context, now time.Time, limit int) ([]Task, error)
	Requeue(ctx context.Context, t Task, delay time.Duration) error
}
