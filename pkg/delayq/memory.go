package delayq

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryQueue is an in-process Queue with the same claiming contract as the
// redis store, for tests and single-node setups.
type MemoryQueue struct {
	mu    sync.Mutex
	tasks []Task
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Enqueue(_ context.Context, t Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	sort.SliceStable(q.tasks, func(i, j int) bool {
		return q.tasks[i].FireAt.Before(q.tasks[j].FireAt)
	})
	return nil
}

func (q *MemoryQueue) Due(_ context.Context, now time.Time, limit int) ([]Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []Task
	for len(q.tasks) > 0 && len(due) < limit && !q.tasks[0].FireAt.After(now) {
		due = append(due, q.tasks[0])
		q.tasks = q.tasks[1:]
	}
	return due, nil
}

func (q *MemoryQueue) Requeue(ctx context.Context, t Task, delay time.Duration) error {
	t.Attempts++
	t.FireAt = time.Now().UTC().Add(delay)
	return q.Enqueue(ctx, t)
}

// Len reports the number of pending tasks.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
