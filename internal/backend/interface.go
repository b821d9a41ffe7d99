package backend

import (
	"context"

	"financie/internal/events"
	"financie/internal/records"
)

// BackendResult holds the record store and event publisher built from config.
// Closing the record service that wraps them releases both.
type BackendResult struct {
	Store     records.Store
	Publisher events.Publisher
	// HealthCheck probes the store; nil when there is nothing to probe.
	HealthCheck func(ctx context.Context) error
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDSN string

	// Record events
	Events       EventsType
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
}

// BackendType represents the type of record store
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// EventsType selects where record events are published.
type EventsType string

const (
	EventsNone  EventsType = "none"
	EventsAMQP  EventsType = "amqp"
	EventsKafka EventsType = "kafka"
)

func (et EventsType) IsValid() bool {
	switch et {
	case EventsNone, EventsAMQP, EventsKafka:
		return true
	default:
		return false
	}
}
