package config

import (
	"fmt"
	"strings"
)

// Supported store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverDynamoDB = "dynamodb"
	StoreDriverMemory   = "memory"
)

type StoreConfig struct {
	Driver string `koanf:"driver"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	return b.String()
}

// Validate defaults an empty driver to postgres.
func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case "":
		c.Driver = StoreDriverPostgres
	case StoreDriverPostgres, StoreDriverDynamoDB, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Driver)
	}
	return nil
}
