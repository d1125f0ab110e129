package config

import (
	"fmt"
	"strings"
)

type StoreConfig struct {
	Path       string `koanf:"path"`
	StrictRead bool   `koanf:"strictread"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  path: %s\n", c.Path))
	b.WriteString(fmt.Sprintf("  strictread: %t\n", c.StrictRead))
	return b.String()
}

func (c *StoreConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("store path is not configured")
	}
	if strings.HasSuffix(c.Path, "/") {
		return fmt.Errorf("store path must point to a file: %s", c.Path)
	}
	return nil
}
