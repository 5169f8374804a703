// Package kafka consumes order requests published by other systems and books
// them as SYSTEM orders.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// intakeActorID names the system actor that books consumed orders.
const intakeActorID = "order-intake"

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderCreator books a validated order.
type OrderCreator interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
}

// StopMessage is a pickup or dropoff in an order request.
type StopMessage struct {
	Address string  `json:"address"`
	MapLink string  `json:"mapLink"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// OrderRequestedMessage is the JSON value of an order request. ID is chosen
// by the producer and makes redelivery idempotent.
type OrderRequestedMessage struct {
	ID            string      `json:"id"`
	SenderName    string      `json:"senderName"`
	SenderContact string      `json:"senderContact"`
	Pickup        StopMessage `json:"pickup"`
	Dropoff       StopMessage `json:"dropoff"`
	Tier          string      `json:"tier"`
	CashAdvance   int64       `json:"cashAdvance"`
	COD           int64       `json:"cod"`
	Notes         string      `json:"notes"`
}

// OrderIntakeConsumer reads order requests and creates orders.
//
// Malformed or invalid requests are logged and skipped. Requests whose id is
// already booked count as delivered. Any other failure is retried after
// retryDelay until it succeeds or the context ends; the offset is committed
// only once the request is handled.
type OrderIntakeConsumer struct {
	reader     MessageReader
	creator    OrderCreator
	retryDelay time.Duration
	logger     *slog.Logger
}

func NewOrderIntakeConsumer(brokers []string, topic, groupID string, creator OrderCreator, logger *slog.Logger) *OrderIntakeConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return NewOrderIntakeConsumerWithReader(reader, creator, time.Second, logger)
}

func NewOrderIntakeConsumerWithReader(
	reader MessageReader,
	creator OrderCreator,
	retryDelay time.Duration,
	logger *slog.Logger,
) *OrderIntakeConsumer {
	return &OrderIntakeConsumer{
		reader:     reader,
		creator:    creator,
		retryDelay: retryDelay,
		logger:     logger.With("component", "order-intake"),
	}
}

// Run consumes until ctx is cancelled, then returns ctx.Err().
func (c *OrderIntakeConsumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "order intake started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.ErrorContext(ctx, "failed to fetch message", "error", err)
			if !c.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		if err = c.handleWithRetry(ctx, msg); err != nil {
			return err
		}

		if err = c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.ErrorContext(ctx, "failed to commit offset", "offset", msg.Offset, "error", err)
		}
	}
}

func (c *OrderIntakeConsumer) Close() error {
	return c.reader.Close()
}

func (c *OrderIntakeConsumer) handleWithRetry(ctx context.Context, msg kafka.Message) error {
	for {
		err := c.handle(ctx, msg)
		if err == nil {
			return nil
		}

		metrics.OrderIntakeTotal.WithLabelValues("failed").Inc()
		c.logger.ErrorContext(ctx, "failed to book order request, retrying",
			"partition", msg.Partition, "offset", msg.Offset, "error", err)
		if !c.sleep(ctx) {
			return ctx.Err()
		}
	}
}

// handle returns an error only for failures worth retrying.
func (c *OrderIntakeConsumer) handle(ctx context.Context, msg kafka.Message) error {
	cmd, err := decodeOrderRequest(msg.Value)
	if err != nil {
		metrics.OrderIntakeTotal.WithLabelValues("rejected").Inc()
		c.logger.WarnContext(ctx, "rejected order request",
			"partition", msg.Partition, "offset", msg.Offset, "error", err)
		return nil
	}

	err = c.creator.Handle(ctx, cmd)
	switch {
	case err == nil:
		metrics.OrderIntakeTotal.WithLabelValues("created").Inc()
		c.logger.InfoContext(ctx, "order booked from intake", "order_id", cmd.OrderID().String())
		return nil
	case errors.Is(err, errs.ErrAlreadyExists):
		metrics.OrderIntakeTotal.WithLabelValues("duplicate").Inc()
		c.logger.InfoContext(ctx, "order request already booked", "order_id", cmd.OrderID().String())
		return nil
	case isRejection(err):
		metrics.OrderIntakeTotal.WithLabelValues("rejected").Inc()
		c.logger.WarnContext(ctx, "rejected order request", "order_id", cmd.OrderID().String(), "error", err)
		return nil
	default:
		return err
	}
}

func decodeOrderRequest(value []byte) (commands.CreateOrderCommand, error) {
	var m OrderRequestedMessage
	if err := json.Unmarshal(value, &m); err != nil {
		return commands.CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("order request", err)
	}

	orderID, err := kernel.UUIDFromString(m.ID)
	if err != nil {
		return commands.CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}

	return commands.NewCreateOrderCommand(orderID, kernel.SystemActor(intakeActorID), commands.OrderRequest{
		SenderName:    m.SenderName,
		SenderContact: m.SenderContact,
		Pickup:        commands.StopInput(m.Pickup),
		Dropoff:       commands.StopInput(m.Dropoff),
		Tier:          m.Tier,
		CashAdvance:   m.CashAdvance,
		COD:           m.COD,
		Notes:         m.Notes,
	})
}

// isRejection reports validation failures that no retry can fix.
func isRejection(err error) bool {
	return errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}

func (c *OrderIntakeConsumer) sleep(ctx context.Context) bool {
	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
