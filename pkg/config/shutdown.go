package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	defaultShutdownTimeout = 15 * time.Second
	// maxShutdownTimeout keeps a drain inside a typical orchestrator grace period.
	maxShutdownTimeout = 2 * time.Minute
)

// ShutdownConfig bounds how long the catalog drains its HTTP, gRPC and pprof servers
// and flushes telemetry after a termination signal.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// String returns a string representation of the ShutdownConfig.
func (c *ShutdownConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Shutdown ---\n")
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

// Validate defaults an unset timeout and rejects negative or oversized ones.
func (c *ShutdownConfig) Validate() error {
	switch {
	case c.Timeout == 0:
		c.Timeout = defaultShutdownTimeout
	case c.Timeout < 0:
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.Timeout)
	case c.Timeout > maxShutdownTimeout:
		return fmt.Errorf("shutdown timeout %s exceeds the %s limit", c.Timeout, maxShutdownTimeout)
	}
	return nil
}

// Context returns a fresh context for one drain step. It does not derive from the
// signal context, which is already cancelled when shutdown starts.
func (c *ShutdownConfig) Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Timeout)
}
