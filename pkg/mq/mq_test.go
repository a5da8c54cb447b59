package mq

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	err       error
	published []amqp.Publishing
	keys      []string
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

type rentalEvent struct {
	RentalID int64  `json:"rental_id"`
	Type     string `json:"type"`
}

func TestPublisher_PublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "dvdrental.events", BreakerConfig{})

	require.NoError(t, p.Publish(context.Background(), "rental.created", rentalEvent{RentalID: 7, Type: "rental.created"}))

	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, "rental.created", ch.keys[0])
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)

	var got rentalEvent
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, int64(7), got.RentalID)
}

func TestPublisher_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel/connection is not open")}
	p := newPublisher(ch, "dvdrental.events", BreakerConfig{FailureThreshold: 3, Timeout: time.Minute})

	for i := 0; i < 3; i++ {
		err := p.Publish(context.Background(), "rental.returned", rentalEvent{RentalID: 1})
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
	assert.Equal(t, gobreaker.StateOpen, p.State())

	err := p.Publish(context.Background(), "rental.returned", rentalEvent{RentalID: 1})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestPublisher_MarshalError(t *testing.T) {
	p := newPublisher(&fakeChannel{}, "dvdrental.events", BreakerConfig{})
	err := p.Publish(context.Background(), "rental.created", func() {})
	assert.Error(t, err)
	assert.Equal(t, gobreaker.StateClosed, p.State())
}

// TestPubSub_Broker runs against a live broker when MQ_TEST_URL is set.
func TestPubSub_Broker(t *testing.T) {
	url := os.Getenv("MQ_TEST_URL")
	if url == "" {
		t.Skip("MQ_TEST_URL not set")
	}

	consumer, err := NewConsumer(url, "dvdrental.test.events", "topic", "dvdrental.test.queue", []string{"rental.*"})
	require.NoError(t, err)
	defer consumer.Close()

	publisher, err := NewPublisher(PublisherConfig{URL: url, Exchange: "dvdrental.test.events", ExchangeType: "topic"})
	require.NoError(t, err)
	defer publisher.Close()

	require.NoError(t, publisher.Publish(context.Background(), "rental.cancelled", rentalEvent{RentalID: 99, Type: "rental.cancelled"}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got rentalEvent
	_ = consumer.Consume(ctx, func(_ string, body []byte) error {
		if err := json.Unmarshal(body, &got); err != nil {
			return err
		}
		if got.RentalID == 99 {
			cancel()
		}
		return nil
	})
	assert.Equal(t, int64(99), got.RentalID)
}
