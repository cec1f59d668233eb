// Package eventbus provides the watermill publisher/subscriber pair that
// carries print jobs between the HTTP API and the printer router.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/printboard/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
)

// QueueGroup load-balances NATS deliveries across server replicas.
const QueueGroup = "printboard"

// EventBus is both a message.Publisher and a message.Subscriber.
type EventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger
	driver     string
}

// New builds the bus selected by cfg.EventBus.Driver.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch cfg.EventBus.Driver {
	case config.EventBusMemory, "":
		logger.InfoContext(ctx, "Using in-memory event bus")
		return NewMemory(logger), nil

	case config.EventBusNATS:
		marshaler := &nats.NATSMarshaler{}
		options := []nc.Option{
			nc.RetryOnFailedConnect(true),
			nc.Timeout(30 * time.Second),
			nc.ReconnectWait(1 * time.Second),
		}
		jsConfig := nats.JetStreamConfig{Disabled: true}

		publisher, err := nats.NewPublisher(
			nats.PublisherConfig{
				URL:         cfg.NATS.URL,
				Marshaler:   marshaler,
				NatsOptions: options,
				JetStream:   jsConfig,
			},
			wmLogger,
		)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to create NATS publisher", slog.Any("error", err))
			return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
		}

		subscriber, err := nats.NewSubscriber(
			nats.SubscriberConfig{
				URL:               cfg.NATS.URL,
				QueueGroupPrefix:  QueueGroup,
				CloseTimeout:      30 * time.Second,
				AckWaitTimeout:    30 * time.Second,
				NatsOptions:       options,
				Unmarshaler:       marshaler,
				JetStream:         jsConfig,
				SubjectCalculator: nats.DefaultSubjectCalculator,
			},
			wmLogger,
		)
		if err != nil {
			_ = publisher.Close()
			logger.ErrorContext(ctx, "Failed to create NATS subscriber", slog.Any("error", err))
			return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
		}

		logger.InfoContext(ctx, "Using NATS event bus", slog.String("url", cfg.NATS.URL))
		return &EventBus{publisher: publisher, subscriber: subscriber, logger: logger, driver: config.EventBusNATS}, nil

	default:
		return nil, fmt.Errorf("unknown event bus driver %q", cfg.EventBus.Driver)
	}
}

// NewMemory returns a bus backed by a watermill Go channel.
func NewMemory(logger *slog.Logger) *EventBus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(logger))
	return &EventBus{publisher: pubSub, subscriber: pubSub, logger: logger, driver: config.EventBusMemory}
}

// Publish implements message.Publisher.
func (eb *EventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
		eb.logger.Debug("Publishing message",
			slog.String("topic", topic),
			slog.String("message_id", msg.UUID),
		)
	}
	if err := eb.publisher.Publish(topic, messages...); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe implements message.Subscriber.
func (eb *EventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.InfoContext(ctx, "Subscribing to topic", slog.String("topic", topic))
	return eb.subscriber.Subscribe(ctx, topic)
}

// Driver reports which transport backs the bus.
func (eb *EventBus) Driver() string { return eb.driver }

// Close closes the publisher and the subscriber.
func (eb *EventBus) Close() error {
	var firstErr error
	if err := eb.publisher.Close(); err != nil {
		firstErr = fmt.Errorf("failed to close publisher: %w", err)
	}
	// The memory driver shares one pub/sub for both sides.
	if eb.driver != config.EventBusMemory {
		if err := eb.subscriber.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close subscriber: %w", err)
		}
	}
	return firstErr
}

var (
	_ message.Publisher  = (*EventBus)(nil)
	_ message.Subscriber = (*EventBus)(nil)
)
