package config

import (
	"strings"

	"github.com/inventario/inventario/pkg/config"
	"github.com/inventario/inventario/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Store      config.StoreConfig      `koanf:"store"`
	Database   config.DatabaseConfig   `koanf:"database"`
	DynamoDB   config.DynamoDBConfig   `koanf:"dynamodb"`
	Messaging  config.MessagingConfig  `koanf:"messaging"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Store.String())
	switch c.Store.Driver {
	case config.StoreDriverPostgres:
		b.WriteString(c.Database.String())
	case config.StoreDriverDynamoDB:
		b.WriteString(c.DynamoDB.String())
	}
	b.WriteString(c.Messaging.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid.
// Only the settings of the selected store driver are checked.
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	switch c.Store.Driver {
	case config.StoreDriverPostgres:
		if err := c.Database.Validate(); err != nil {
			return err
		}
	case config.StoreDriverDynamoDB:
		if err := c.DynamoDB.Validate(); err != nil {
			return err
		}
	}
	if err := c.Messaging.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.GRPC.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return nil
}
