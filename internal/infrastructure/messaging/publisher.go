// Package messaging delivers rental lifecycle events to RabbitMQ.
package messaging

import (
	"context"

	"github.com/xiebiao/dvdrental/internal/domain/rental"
	"github.com/xiebiao/dvdrental/internal/infrastructure/config"
	"github.com/xiebiao/dvdrental/pkg/logging"
	"github.com/xiebiao/dvdrental/pkg/mq"
)

// Sender is the subset of mq.Publisher the adapter needs.
type Sender interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// EventPublisher routes each event by its type.
type EventPublisher struct {
	sender Sender
}

func NewEventPublisher(sender Sender) *EventPublisher {
	return &EventPublisher{sender: sender}
}

func (p *EventPublisher) Publish(ctx context.Context, event rental.Event) error {
	return p.sender.Publish(ctx, event.Type, event)
}

// NopPublisher drops events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, rental.Event) error { return nil }

// NewPublisher returns the broker-backed publisher when mq is enabled.
// An unreachable broker degrades to NopPublisher: events are best effort and
// must not keep the API from starting.
func NewPublisher(cfg *config.Config) (rental.EventPublisher, func()) {
	log := logging.WithComponent("messaging")
	if !cfg.MQ.Enabled {
		log.Info().Msg("mq disabled, rental events are not published")
		return NopPublisher{}, func() {}
	}

	pub, err := mq.NewPublisher(mq.PublisherConfig{
		URL:          cfg.MQ.URL,
		Exchange:     cfg.MQ.Exchange,
		ExchangeType: cfg.MQ.ExchangeType,
		Breaker: mq.BreakerConfig{
			MaxRequests:      cfg.MQ.Breaker.MaxRequests,
			Interval:         cfg.MQ.Breaker.Interval,
			Timeout:          cfg.MQ.Breaker.Timeout,
			FailureThreshold: cfg.MQ.Breaker.FailureThreshold,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("mq unavailable, rental events are dropped")
		return NopPublisher{}, func() {}
	}

	return NewEventPublisher(pub), func() {
		if err := pub.Close(); err != nil {
			log.Warn().Err(err).Msg("close mq publisher")
		}
	}
}
