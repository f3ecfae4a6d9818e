package delayq

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/veerananda/Stock-Deduction-Service/pkg/tracing"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Dispatcher hands due tasks to kafka, where the reconciliation consumer picks
// them up. The task key becomes the message key so tasks for one order land on
// one partition.
type Dispatcher struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewDispatcher(log *slog.Logger, producer Producer, topic string) *Dispatcher {
	return &Dispatcher{log: log, producer: producer, topic: topic}
}

func (d *Dispatcher) Dispatch(ctx context.Context, t Task) error {
	headers := []kafka.Header{
		{Key: "task_id", Value: []byte(t.ID)},
		{Key: "attempts", Value: []byte(strconv.Itoa(t.Attempts))},
	}
	headers = tracing.InjectKafkaHeaders(ctx, headers)
	msg := kafka.Message{
		Topic:   d.topic,
		Key:     []byte(t.Key),
		Value:   t.Payload,
		Headers: headers,
	}
	if err := d.producer.WriteMessages(ctx, msg); err != nil {
		d.log.Error("task dispatch failed", "task_id", t.ID, "err", err)
		return err
	}
	d.log.Info("task dispatched", "task_id", t.ID, "key", t.Key)
	return nil
}
