package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pokernight/cashbox/internal/infra"
	"github.com/pokernight/cashbox/internal/repository"
)

// The outbox consumer is a separate process that drains event_outbox
// rows written by the API and publishes them to Kafka. Run one instance
// per database.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("outbox consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("outbox-consumer connected to postgres")

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	poller := infra.NewOutboxPoller(pool, repository.NewOutboxRepository(), producer, logger)
	poller.Start(ctx)

	consumer := infra.NewKafkaConsumer(cfg.KafkaBrokers, infra.OutboxTopics(), "cashbox-outbox-log", cfg.KafkaEnabled, logger)
	defer consumer.Close()
	if consumer.Enabled() {
		go consumeLoop(ctx, consumer, logger)
	}

	<-ctx.Done()
	logger.Info("outbox-consumer shutting down")
	return nil
}

// consumeLoop reads published events back off Kafka and logs them,
// giving operators a tail of the event stream next to the publisher.
func consumeLoop(ctx context.Context, consumer *infra.KafkaConsumer, logger *slog.Logger) {
	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("kafka read failed", "error", err)
			}
			return
		}
		logger.Info("outbox event consumed",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
			"bytes", len(msg.Value),
		)
	}
}
