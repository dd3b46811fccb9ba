package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	maxShutdownTimeout     = 5 * time.Minute
)

// ShutdownConfig bounds how long each server and provider gets to stop once the service is signalled.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// String returns a string representation of the shutdown configuration.
func (c *ShutdownConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Shutdown ---\n")
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

// Validate fills in the default timeout when none is set.
func (c *ShutdownConfig) Validate() error {
	switch {
	case c.Timeout == 0:
		c.Timeout = defaultShutdownTimeout
	case c.Timeout < 0:
		return fmt.Errorf("shutdown timeout must not be negative")
	case c.Timeout > maxShutdownTimeout:
		return fmt.Errorf("shutdown timeout %s exceeds %s", c.Timeout, maxShutdownTimeout)
	}
	return nil
}
