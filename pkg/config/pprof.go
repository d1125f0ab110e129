package config

import (
	"fmt"
	"strings"
)

type PProfConfig struct {
	Enabled          bool   `koanf:"enabled"`
	Addr             string `koanf:"addr"`
	BlockProfileRate int    `koanf:"blockprofilerate"`
}

// String returns a string representation of the pprof configuration.
func (c *PProfConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- PProf ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  address: %s\n", c.Addr))
	b.WriteString(fmt.Sprintf("  blockprofilerate: %d\n", c.BlockProfileRate))
	return b.String()
}

func (c *PProfConfig) Validate() error {
	if c.Enabled && c.Addr == "" {
		return fmt.Errorf("pprof is enabled but address is not configured")
	}
	if c.BlockProfileRate < 0 {
		return fmt.Errorf("pprof block profile rate must not be negative")
	}
	return nil
}
