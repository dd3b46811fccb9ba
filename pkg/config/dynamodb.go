package config

import (
	"fmt"
	"strings"
	"time"
)

type DynamoDBConfig struct {
	Region      string        `koanf:"region"`
	Endpoint    string        `koanf:"endpoint"`
	Table       string        `koanf:"table"`
	AccessKey   string        `koanf:"accesskey"`
	SecretKey   string        `koanf:"secretkey"`
	CreateTable bool          `koanf:"createtable"`
	Timeout     time.Duration `koanf:"timeout"`
}

// String returns a string representation of the DynamoDB configuration.
func (c *DynamoDBConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- DynamoDB ---\n")
	b.WriteString(fmt.Sprintf("  region: %s\n", c.Region))
	b.WriteString(fmt.Sprintf("  endpoint: %s\n", c.Endpoint))
	b.WriteString(fmt.Sprintf("  table: %s\n", c.Table))
	b.WriteString(fmt.Sprintf("  static credentials: %t\n", c.AccessKey != ""))
	b.WriteString(fmt.Sprintf("  createtable: %t\n", c.CreateTable))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *DynamoDBConfig) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("DynamoDB region is not configured")
	}
	if c.Table == "" {
		return fmt.Errorf("DynamoDB table is not configured")
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("DynamoDB access key and secret key must be set together")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("DynamoDB timeout must be greater than 0")
	}
	return nil
}
