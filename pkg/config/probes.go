package config

import (
	"fmt"
	"strings"
	"time"
)

type ProbesConfig struct {
	ReadinessFileName string        `koanf:"readinessfilename"`
	LivenessFileName  string        `koanf:"livenessfilename"`
	LivenessInterval  time.Duration `koanf:"livenessinterval"`
}

const (
	defaultReadinessFileName = "/tmp/ready"
	defaultLivenessFileName  = "/tmp/live"
	defaultLivenessInterval  = 20 * time.Second
)

// String returns a string representation of the probes configuration.
func (c *ProbesConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Probes ---\n")
	b.WriteString(fmt.Sprintf("  readinessfilename: %s\n", c.ReadinessFileName))
	b.WriteString(fmt.Sprintf("  livenessfilename: %s\n", c.LivenessFileName))
	b.WriteString(fmt.Sprintf("  livenessinterval: %s\n", c.LivenessInterval))
	return b.String()
}

// Validate fills unset values with defaults and never fails.
func (c *ProbesConfig) Validate() error {
	if c.ReadinessFileName == "" {
		c.ReadinessFileName = defaultReadinessFileName
	}
	if c.LivenessFileName == "" {
		c.LivenessFileName = defaultLivenessFileName
	}
	if c.LivenessInterval <= 0 {
		c.LivenessInterval = defaultLivenessInterval
	}
	return nil
}
