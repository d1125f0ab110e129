// Package main checks the health of a running catalog service over gRPC.
// It exits 0 when the catalog reports SERVING and 1 otherwise, for use as a container health check.
package main

import (
	"context"
	"log"
	"os"

	"github.com/abgdnv/gocatalog/internal/config"
	"github.com/abgdnv/gocatalog/internal/probe"
	grpcImpl "github.com/abgdnv/gocatalog/internal/transport/grpc"
	"github.com/abgdnv/gocatalog/pkg/config/configloader"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const serviceName = "catalog"

func main() {
	cfg, err := configloader.Load[config.Config](serviceName)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if !cfg.GRPC.Enabled {
		log.Fatal("gRPC server is disabled, nothing to probe")
	}

	target := "localhost:" + cfg.GRPC.Port
	status, err := probe.Check(context.Background(), target, grpcImpl.ServiceName, cfg.Resilience.Retry)
	if err != nil {
		log.Fatalf("probe failed: %v", err)
	}
	log.Printf("%s at %s: %s", grpcImpl.ServiceName, target, status)
	if status != healthpb.HealthCheckResponse_SERVING {
		os.Exit(1)
	}
}
