// Package probe queries the catalog's gRPC health service from outside the process.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/abgdnv/gocatalog/pkg/client/grpc/interceptors"
	"github.com/abgdnv/gocatalog/pkg/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Check asks the health service at target for the status of service.
// Transient failures are retried per cfg; opts are appended to the dial options.
func Check(ctx context.Context, target, service string, cfg config.RetryConfig, opts ...grpc.DialOption) (healthpb.HealthCheckResponse_ServingStatus, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(
			interceptors.UnaryCallBudget(budget(cfg)),
			interceptors.NewRetryInterceptor(cfg),
		),
	}
	conn, err := grpc.NewClient(target, append(dialOpts, opts...)...)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("failed to create gRPC client for %s: %w", target, err)
	}
	defer func() { _ = conn.Close() }()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check of %q failed: %w", service, err)
	}
	return resp.GetStatus(), nil
}

// budget is the deadline for a whole check: every attempt timing out plus the
// exponential backoff waited between attempts.
func budget(cfg config.RetryConfig) time.Duration {
	total := time.Duration(cfg.MaxAttempts) * cfg.CallTimeout
	backoff := cfg.InitialBackoff
	for i := uint(1); i < cfg.MaxAttempts; i++ {
		total += backoff
		backoff *= 2
	}
	return total
}
