package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// GrpcClientConfig points a client at a gRPC server.
// Addr is either host:port or a resolver target such as dns:///products:50051.
// Timeout bounds a single attempt; zero leaves attempts bounded by the caller's context only.
type GrpcClientConfig struct {
	Addr    string        `koanf:"addr"`
	Timeout time.Duration `koanf:"timeout"`
}

// String returns a string representation of the gRPC client configuration.
func (c *GrpcClientConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- gRPC Client ---\n")
	b.WriteString(fmt.Sprintf("  addr: %s\n", c.Addr))
	if c.Timeout == 0 {
		b.WriteString("  timeout: none\n")
	} else {
		b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	}
	return b.String()
}

func (c *GrpcClientConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("gRPC client address is not configured")
	}
	if err := validateTarget(c.Addr); err != nil {
		return fmt.Errorf("gRPC client address %q: %w", c.Addr, err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("gRPC client timeout must not be negative")
	}
	return nil
}

func validateTarget(addr string) error {
	if scheme, endpoint, ok := strings.Cut(addr, "://"); ok {
		if scheme == "" || strings.Trim(endpoint, "/") == "" {
			return fmt.Errorf("incomplete resolver target")
		}
		return nil
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}
