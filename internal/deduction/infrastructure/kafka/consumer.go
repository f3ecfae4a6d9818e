package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/veerananda/Stock-Deduction-Service/internal/deduction/application"
	orderdom "github.com/veerananda/Stock-Deduction-Service/internal/order/domain"
	"github.com/veerananda/Stock-Deduction-Service/pkg/delayq"
	"github.com/veerananda/Stock-Deduction-Service/pkg/idempotency"
	"github.com/veerananda/Stock-Deduction-Service/pkg/tracing"
)

const maxAttempts = 5

// Consumer runs the reconciliation worker against fired deduction tasks.
// Delivery is at-least-once: an offset-keyed dedup marker suppresses straight
// redeliveries, and the worker's own pending re-check guards everything else.
// A processing fault puts the task back on the delay queue for a later retry
// and the offset is committed; only infra failures (dedup store, requeue)
// stop the consumer so it restarts from the last committed offset.
type Consumer struct {
	log        *slog.Logger
	reader     *kafka.Reader
	worker     *application.Worker
	idem       *idempotency.Store
	queue      delayq.Queue
	retryDelay time.Duration
	tracer     trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, worker *application.Worker, idem *idempotency.Store, queue delayq.Queue) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:        log,
		reader:     r,
		worker:     worker,
		idem:       idem,
		queue:      queue,
		retryDelay: 30 * time.Second,
		tracer:     otel.Tracer("deduction-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		commit, err := c.process(ctx, msg)
		if err != nil {
			return err
		}
		if commit {
			_ = c.reader.CommitMessages(ctx, msg)
		}
	}
}

// process handles one fired task and reports whether its offset may be
// committed. A non-nil error means the consumer cannot make progress and
// must stop with the offset uncommitted.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) (bool, error) {
	key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
	seen, err := c.idem.Seen(ctx, key)
	if err != nil {
		return false, fmt.Errorf("idempotency check: %w", err)
	}
	if seen {
		c.log.Info("duplicate task skipped", "key", key)
		return true, nil
	}

	msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
	msgCtx, span := c.tracer.Start(msgCtx, "ReconcileDeduction")
	defer span.End()

	task := taskFromMessage(msg)

	snap, err := orderdom.UnmarshalSnapshot(msg.Value)
	if err != nil {
		// Poison: the same bytes can never parse on a retry, so the task
		// is dropped rather than requeued.
		c.log.Error("snapshot unmarshal failed, task dropped", "task_id", task.ID, "err", err)
		return true, nil
	}

	result, err := c.worker.Process(msgCtx, snap)
	if err != nil {
		// Release the dedup marker so the retried task is not mistaken
		// for a duplicate of a successful run.
		_ = c.idem.Forget(ctx, key)
		if task.Attempts >= maxAttempts {
			c.log.Error("reconciliation failed, retries exhausted",
				"order_id", snap.OrderID, "attempts", task.Attempts, "err", err)
			return true, nil
		}
		if reqErr := c.queue.Requeue(ctx, task, c.retryDelay); reqErr != nil {
			return false, fmt.Errorf("requeue task %s: %w", task.ID, reqErr)
		}
		c.log.Warn("reconciliation failed, task requeued",
			"order_id", snap.OrderID, "attempts", task.Attempts+1, "err", err)
		return true, nil
	}

	c.log.Info("reconciliation done", "order_id", snap.OrderID,
		"items", len(result), "all_deducted", result.AllDeducted())
	return true, nil
}

// taskFromMessage rebuilds the delay-queue task a fired message came from,
// so a faulted run can be requeued with its attempt count intact.
func taskFromMessage(msg kafka.Message) delayq.Task {
	attempts, _ := strconv.Atoi(headerValue(msg.Headers, "attempts"))
	return delayq.Task{
		ID:       headerValue(msg.Headers, "task_id"),
		Key:      string(msg.Key),
		Payload:  msg.Value,
		Attempts: attempts,
	}
}

func headerValue(h []kafka.Header, key string) string {
	for _, hh := range h {
		if hh.Key == key {
			return string(hh.Value)
		}
	}
	return ""
}
