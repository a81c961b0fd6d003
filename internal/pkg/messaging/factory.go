package messaging

import (
	"fmt"
	"strings"
)

const (
	// DriverNATS selects the NATS backend.
	DriverNATS = "nats"
	// DriverKafka selects the Kafka backend.
	DriverKafka = "kafka"
)

// FactoryOptions groups config for supported messaging backends.
type FactoryOptions struct {
	// NATS provides configuration for the NATS driver.
	NATS NATSConfig
	// Kafka provides configuration for the Kafka driver.
	Kafka KafkaConfig
}

// NewFromDriver constructs a Messaging implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Messaging, error) {
	switch strings.TrimSpace(driver) {
	case DriverNATS:
		return NewNATS(opts.NATS)
	case DriverKafka:
		return NewKafka(opts.Kafka)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
