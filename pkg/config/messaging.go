package config

import (
	"fmt"
	"strings"
)

// Supported event publisher drivers.
const (
	MessagingDriverNone  = "none"
	MessagingDriverNATS  = "nats"
	MessagingDriverKafka = "kafka"
)

// MessagingConfig selects the event publisher and holds the settings of every driver.
// Only the settings of the selected driver are validated.
type MessagingConfig struct {
	Driver string      `koanf:"driver"`
	Nats   NATSConfig  `koanf:"nats"`
	Kafka  KafkaConfig `koanf:"kafka"`
}

// String returns a string representation of the messaging configuration.
func (c *MessagingConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Messaging ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	switch c.Driver {
	case MessagingDriverNATS:
		b.WriteString(c.Nats.String())
	case MessagingDriverKafka:
		b.WriteString(c.Kafka.String())
	}
	return b.String()
}

func (c *MessagingConfig) Validate() error {
	switch c.Driver {
	case "":
		c.Driver = MessagingDriverNone
		return nil
	case MessagingDriverNone:
		return nil
	case MessagingDriverNATS:
		return c.Nats.Validate()
	case MessagingDriverKafka:
		return c.Kafka.Validate()
	default:
		return fmt.Errorf("unknown messaging driver %q", c.Driver)
	}
}
