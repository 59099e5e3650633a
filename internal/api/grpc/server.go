// Package grpc serves the operational gRPC endpoint: health checks and reflection.
package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"rentshare-backend/internal/api/grpc/interceptor"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/security"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewServer returns a gRPC server with health and reflection registered.
func NewServer(tm security.TokenManager) (*grpc.Server, *health.Server) {
	authInterceptor := interceptor.NewAuthInterceptor(tm)
	s := grpc.NewServer(
		grpc.UnaryInterceptor(authInterceptor.Unary()),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	// Register reflection service for grpcurl
	reflection.Register(s)
	return s, hs
}

// MonitorDatabase flips the overall serving status with the database until ctx ends.
func MonitorDatabase(ctx context.Context, hs *health.Server, db Pinger, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			logger.Warn("Database health check failed", "error", err)
			hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
			return
		}
		hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
