package main

import (
	"context"

	"hashgate/internal/userdata/consumer"
	"hashgate/internal/userdata/handler"
	"hashgate/internal/userdata/service"
	"hashgate/pkg/app"
	"hashgate/pkg/config"
	"hashgate/pkg/kafka"
	kafka_config "hashgate/pkg/kafka/config"
	kafka_middleware "hashgate/pkg/kafka/middleware"
	"hashgate/pkg/metrics"

	"github.com/joho/godotenv"
)

const ServiceName = "user-data-worker"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	cfg.Log.Info("Starting User Data worker")
	m := metrics.New()

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.OutputTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware(m))

	eventConsumer := consumer.NewEventConsumer(service.NewUserDataService(m, cfg.Log), producer, cfg.HashUserData, cfg.Log)

	kafkaConsumer, err := kafka.NewConsumer(kafkaCfg, eventConsumer.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	kafkaConsumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	kafkaConsumer.Use(kafka_middleware.MetricsConsumerMiddleware(m))

	checks := map[string]handler.ReadinessCheck{
		"kafka": func(ctx context.Context) error {
			return kafka.Ping(ctx, kafkaCfg.Brokers)
		},
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewHealthHandler(checks, m.Handler(), cfg.Log), nil)
	serverApp.AddWorker(kafkaConsumer)
	serverApp.Run()

	// The consumer is closed by Run, so nothing publishes past this point.
	if err := producer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka producer", "error", err)
	}
}
