package delayq

import (
	"context"
	"log/slog"
	"time"
)

// Relay polls the queue for due tasks and dispatches them. Dispatch failures
// go back on the queue with a retry delay rather than being retried inline.
type Relay struct {
	log        *slog.Logger
	queue      Queue
	dispatch   *Dispatcher
	relayID    string
	batchSize  int
	interval   time.Duration
	retryDelay time.Duration
}

func NewRelay(log *slog.Logger, queue Queue, dispatch *Dispatcher, relayID string) *Relay {
	return &Relay{
		log:        log,
		queue:      queue,
		dispatch:   dispatch,
		relayID:    relayID,
		batchSize:  100,
		interval:   500 * time.Millisecond,
		retryDelay: 5 * time.Second,
	}
}

func (r *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("relay stopping", "relay_id", r.relayID)
			return nil
		case now := <-t.C:
			tasks, err := r.queue.Due(ctx, now.UTC(), r.batchSize)
			if err != nil {
				// Tasks returned alongside the error are already claimed
				// out of the queue and must still be dispatched below, or
				// they are lost.
				r.log.Error("relay poll error", "relay_id", r.relayID, "err", err)
			}
			for _, task := range tasks {
				if err := r.dispatch.Dispatch(ctx, task); err != nil {
					if reqErr := r.queue.Requeue(ctx, task, r.retryDelay); reqErr != nil {
						r.log.Error("relay requeue error", "task_id", task.ID, "err", reqErr)
					}
				}
			}
		}
	}
}
