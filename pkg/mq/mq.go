// Package mq publishes and consumes JSON messages over RabbitMQ.
//
// Publishing goes through a circuit breaker: once the broker keeps failing,
// Publish fails fast with gobreaker.ErrOpenState until the timeout elapses.
package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/xiebiao/dvdrental/pkg/logging"
	"github.com/xiebiao/dvdrental/pkg/metrics"
)

// BreakerConfig tunes the publish circuit breaker.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// PublisherConfig describes the exchange to publish to.
type PublisherConfig struct {
	URL          string
	Exchange     string
	ExchangeType string
	Breaker      BreakerConfig
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publishes persistent JSON messages to one exchange.
type Publisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	ch       channel
	exchange string
	breaker  *gobreaker.CircuitBreaker[struct{}]
}

// NewPublisher dials the broker and declares a durable exchange.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, cfg.ExchangeType, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	logging.L().Info().Str("exchange", cfg.Exchange).Str("type", cfg.ExchangeType).Msg("mq publisher ready")

	p := newPublisher(ch, cfg.Exchange, cfg.Breaker)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, bc BreakerConfig) *Publisher {
	name := "mq:" + exchange
	threshold := bc.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	p := &Publisher{ch: ch, exchange: exchange}
	p.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, float64(to))
			logging.L().Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
	metrics.SetBreakerState(name, float64(gobreaker.StateClosed))
	return p
}

// Publish marshals message to JSON and publishes it under routingKey.
func (p *Publisher) Publish(ctx context.Context, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		p.mu.Lock()
		defer p.mu.Unlock()
		return struct{}{}, p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	})

	switch {
	case err == nil:
		metrics.IncPublished(routingKey, "success")
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.IncPublished(routingKey, "rejected")
		return fmt.Errorf("publish %s: %w", routingKey, err)
	default:
		metrics.IncPublished(routingKey, "failure")
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
}

// State reports the breaker state.
func (p *Publisher) State() gobreaker.State {
	return p.breaker.State()
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Consumer reads from a durable queue bound to an exchange.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewConsumer declares exchange and queue and binds routingKeys (wildcards allowed).
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	fail := func(err error) (*Consumer, error) {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		return fail(fmt.Errorf("declare exchange %s: %w", exchange, err))
	}
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fail(fmt.Errorf("declare queue %s: %w", queue, err))
	}
	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return fail(fmt.Errorf("bind %s to %s: %w", key, q.Name, err))
		}
	}

	return &Consumer{conn: conn, channel: ch, queue: q.Name}, nil
}

// Consume delivers messages to handler until ctx is done. A handler error
// nacks the message with requeue.
func (c *Consumer) Consume(ctx context.Context, handler func(routingKey string, body []byte) error) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	log := logging.WithComponent("mq-consumer")
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := handler(msg.RoutingKey, msg.Body); err != nil {
				log.Error().Err(err).Str("routing_key", msg.RoutingKey).Msg("message handling failed, requeueing")
				metrics.IncConsumed(c.queue, "failure")
				_ = msg.Nack(false, true)
				continue
			}
			metrics.IncConsumed(c.queue, "success")
			_ = msg.Ack(false)
		}
	}
}

// Close releases the channel and connection.
func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
