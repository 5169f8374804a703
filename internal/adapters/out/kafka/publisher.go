// Package kafka publishes committed order audit entries to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

var _ ports.OrderEventPublisher = (*AuditPublisher)(nil)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuditEntryMessage is the JSON value of one published audit entry.
type AuditEntryMessage struct {
	OrderID   string            `json:"orderId"`
	Status    string            `json:"status"`
	Kind      string            `json:"kind"`
	At        time.Time         `json:"at"`
	ActorRole string            `json:"actorRole"`
	ActorID   string            `json:"actorId"`
	Metadata  map[string]string `json:"metadata"`
}

// AuditPublisher writes one message per audit entry, keyed by order id so
// the entries of an order stay in one partition and in order.
type AuditPublisher struct {
	writer MessageWriter
}

func NewAuditPublisher(brokers []string, topic string) *AuditPublisher {
	return NewAuditPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	})
}

func NewAuditPublisherWithWriter(writer MessageWriter) *AuditPublisher {
	return &AuditPublisher{writer: writer}
}

// PublishAuditEntries sends entries in one batch; status is the order status
// after the commit that produced them.
func (p *AuditPublisher) PublishAuditEntries(
	ctx context.Context,
	orderID kernel.UUID,
	status order.Status,
	entries []order.AuditEntry,
) error {
	if len(entries) == 0 {
		return nil
	}

	key := []byte(orderID.String())
	msgs := make([]kafka.Message, 0, len(entries))
	for _, entry := range entries {
		value, err := json.Marshal(AuditEntryMessage{
			OrderID:   orderID.String(),
			Status:    status.String(),
			Kind:      string(entry.Kind()),
			At:        entry.Timestamp(),
			ActorRole: entry.ActorRole().String(),
			ActorID:   entry.ActorID(),
			Metadata:  entry.Metadata(),
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{Key: key, Value: value, Time: entry.Timestamp()})
	}

	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *AuditPublisher) Close() error {
	return p.writer.Close()
}
