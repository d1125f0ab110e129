// Package interceptors provides unary client interceptors for outbound gRPC calls.
package interceptors

import (
	"github.com/abgdnv/gocatalog/pkg/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
)

// NewRetryInterceptor creates a gRPC unary client interceptor with retry logic.
// Each attempt gets its own CallTimeout deadline.
func NewRetryInterceptor(cfg config.RetryConfig) grpc.UnaryClientInterceptor {
	opts := []retry.CallOption{
		// Retry on transient errors.
		retry.WithCodes(codes.Unavailable, codes.ResourceExhausted, codes.Aborted),
		retry.WithMax(cfg.MaxAttempts),
		retry.WithBackoff(retry.BackoffExponential(cfg.InitialBackoff)),
	}
	if cfg.CallTimeout > 0 {
		opts = append(opts, retry.WithPerRetryTimeout(cfg.CallTimeout))
	}
	return retry.UnaryClientInterceptor(opts...)
}
