// Package grpc exposes the standard gRPC health service for the catalog.
package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name clients query for the catalog.
const ServiceName = "catalog.v1.ProductCatalog"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer keeps the gRPC serving status in step with the product store.
type HealthServer struct {
	server *health.Server
	pinger Pinger
	logger *slog.Logger
}

func NewHealthServer(pinger Pinger, logger *slog.Logger) *HealthServer {
	hs := &HealthServer{
		server: health.NewServer(),
		pinger: pinger,
		logger: logger.With("component", "grpc_health"),
	}
	hs.server.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return hs
}

// Register attaches the health service to s.
func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Check pings the store once and publishes the result for both the catalog service and the overall server.
func (h *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "Product store ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus(ServiceName, status)
	h.server.SetServingStatus("", status)
	return status
}

// Watch re-checks the store every interval until ctx is done, then marks the server as shutting down.
func (h *HealthServer) Watch(ctx context.Context, interval time.Duration) error {
	h.Check(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			h.logger.Info("Health watcher stopped")
			return nil
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
