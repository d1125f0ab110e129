package config

import (
	"fmt"
	"log"
	"strings"
	"time"
)

type HealthConfig struct {
	Interval time.Duration `koanf:"interval"`
}

const defaultHealthInterval = 10 * time.Second

// String returns a string representation of the HealthConfig.
func (c *HealthConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Health ---\n")
	b.WriteString(fmt.Sprintf("  interval: %s\n", c.Interval))
	return b.String()
}

func (c *HealthConfig) Validate() error {
	if c.Interval <= 0 {
		log.Println("Using default value for health interval")
		c.Interval = defaultHealthInterval
	}
	return nil
}
