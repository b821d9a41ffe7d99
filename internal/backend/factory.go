package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financie/internal/events"
	"financie/internal/events/amqp"
	"financie/internal/events/kafka"
	"financie/internal/records/memory"
	"financie/internal/storage"
)

const brokerProbeTimeout = 3 * time.Second

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
	// pingKafka checks broker reachability before a publisher is handed out.
	pingKafka func(ctx context.Context, brokers []string) error
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger, pingKafka: kafka.Ping}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var result *BackendResult
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "dsn", config.SQLiteDSN)
		result = &BackendResult{Store: repo, HealthCheck: repo.HealthCheck}
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		result = &BackendResult{Store: memory.New()}
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	result.Publisher = f.createPublisher(ctx, config)
	return result, nil
}

// createPublisher never fails: events are best effort, so an unreachable
// broker degrades to the no-op publisher.
func (f *DefaultFactory) createPublisher(ctx context.Context, config Config) events.Publisher {
	switch config.Events {
	case EventsAMQP:
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			return events.Nop{}
		}
		f.logger.Info("Initialized AMQP client",
			"exchange", config.AMQPExchange,
			"queue", config.AMQPQueue)
		return client
	case EventsKafka:
		pingCtx, cancel := context.WithTimeout(ctx, brokerProbeTimeout)
		defer cancel()
		if err := f.pingKafka(pingCtx, config.KafkaBrokers); err != nil {
			f.logger.Warn("Kafka brokers unreachable, continuing without events", "error", err)
			return events.Nop{}
		}
		f.logger.Info("Initialized Kafka publisher",
			"brokers", config.KafkaBrokers,
			"topic", config.KafkaTopic)
		return kafka.NewPublisher(config.KafkaBrokers, config.KafkaTopic)
	default:
		return events.Nop{}
	}
}

// NewConsumer connects to the broker selected by config. Unlike publishing,
// consuming has no fallback: a worker without a broker has nothing to do.
func NewConsumer(config Config) (events.Consumer, error) {
	switch config.Events {
	case EventsAMQP:
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
		}
		return client, nil
	case EventsKafka:
		if config.KafkaGroupID == "" {
			return nil, fmt.Errorf("kafka consumer group is required")
		}
		return kafka.NewConsumer(config.KafkaBrokers, config.KafkaTopic, config.KafkaGroupID), nil
	default:
		return nil, fmt.Errorf("events backend %q cannot be consumed", config.Events)
	}
}
