// Command rental-events consumes rental lifecycle events from RabbitMQ and
// writes them to the structured log.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/xiebiao/dvdrental/internal/infrastructure/config"
	"github.com/xiebiao/dvdrental/internal/infrastructure/messaging"
	"github.com/xiebiao/dvdrental/pkg/logging"
	"github.com/xiebiao/dvdrental/pkg/metrics"
	"github.com/xiebiao/dvdrental/pkg/mq"
)

func main() {
	if err := run(); err != nil {
		logging.L().Fatal().Err(err).Msg("rental-events stopped")
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	out, err := logging.OpenOutput(cfg.Log.Output)
	if err != nil {
		return fmt.Errorf("open log output: %w", err)
	}
	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.EnableCaller,
		Output: out,
	})
	metrics.InitMetrics()

	if !cfg.MQ.Enabled {
		return errors.New("mq is disabled; set mq.enabled to consume rental events")
	}

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, cfg.MQ.Queue, messaging.EventRoutingKeys)
	if err != nil {
		return fmt.Errorf("connect consumer: %w", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.L().Info().
		Str("exchange", cfg.MQ.Exchange).
		Str("queue", cfg.MQ.Queue).
		Strs("routing_keys", messaging.EventRoutingKeys).
		Msg("consuming rental events")
	if err := consumer.Consume(ctx, messaging.LogEvent); err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	logging.L().Info().Msg("rental-events stopped cleanly")
	return nil
}
