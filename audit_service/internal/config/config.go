package config

import (
	"fmt"
	"strings"

	"github.com/inventario/inventario/pkg/config"
	"github.com/inventario/inventario/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

const defaultMetricsAddr = ":9091"

type Config struct {
	Log           config.LogConfig        `koanf:"log"`
	PProf         config.PProfConfig      `koanf:"pprof"`
	Nats          config.NATSConfig       `koanf:"nats"`
	Subscriber    config.SubscriberConfig `koanf:"subscriber"`
	ProductClient config.GrpcClientConfig `koanf:"productclient"`
	Resilience    config.ResilienceConfig `koanf:"resilience"`
	Audit         AuditConfig             `koanf:"audit"`
	ProbesConfig  config.ProbesConfig     `koanf:"probes"`
	Telemetry     config.TelemetryConfig  `koanf:"telemetry"`
	Shutdown      config.ShutdownConfig   `koanf:"shutdown"`
}

// AuditConfig controls what the auditor reports besides the audit record itself.
type AuditConfig struct {
	LowStockThreshold int32 `koanf:"lowstockthreshold"`
}

func (c *AuditConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Audit ---\n")
	b.WriteString(fmt.Sprintf("  lowStockThreshold: %d\n", c.LowStockThreshold))
	return b.String()
}

func (c *AuditConfig) Validate() error {
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("audit: low stock threshold must not be negative")
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.Nats.String())
	b.WriteString(c.Subscriber.String())
	b.WriteString(c.ProductClient.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.Audit.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.ProbesConfig.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.Log,
		&c.PProf,
		&c.Nats,
		&c.Subscriber,
		&c.ProductClient,
		&c.Resilience,
		&c.Audit,
		&c.ProbesConfig,
		&c.Telemetry,
		&c.Shutdown,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if c.Telemetry.Metrics.Enabled && c.Telemetry.Metrics.Addr == "" {
		c.Telemetry.Metrics.Addr = defaultMetricsAddr
	}
	return nil
}
