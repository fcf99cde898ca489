package router

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/interview-assistant/internal/api/grpc/middleware"
	"github.com/dtroode/interview-assistant/internal/logger"
)

// ServiceName is the health-checked service reported alongside the overall status.
const ServiceName = "interview-assistant"

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router represents the gRPC side of the server. It serves the standard health
// protocol, with status following the database connection.
type Router struct {
	database Pinger
	health   *health.Server
	logger   *logger.Logger
}

// New creates new gRPC Router instance.
//
// Parameters:
//   - database: dependency whose reachability decides the serving status
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(database Pinger, logger *logger.Logger) *Router {
	return &Router{
		database: database,
		health:   health.NewServer(),
		logger:   logger,
	}
}

// Register registers the health and reflection services and interceptors.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recovery := middleware.NewRecovery(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryInterceptor(),
			recovery.UnaryInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			logging.StreamInterceptor(),
			recovery.StreamInterceptor(),
		),
	)

	healthpb.RegisterHealthServer(s, r.health)
	reflection.Register(s)

	return s
}

// CheckDatabase pings the database once and publishes the result.
func (r *Router) CheckDatabase(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := r.database.Ping(ctx); err != nil {
		r.logger.Warn("database ping failed",
			"error", err.Error())
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	r.health.SetServingStatus("", status)
	r.health.SetServingStatus(ServiceName, status)
	return status
}

// WatchDatabase re-checks the database every interval until ctx is done,
// then marks every service as not serving.
func (r *Router) WatchDatabase(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.CheckDatabase(ctx)
	for {
		select {
		case <-ctx.Done():
			r.health.Shutdown()
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, interval)
			r.CheckDatabase(pingCtx)
			cancel()
		}
	}
}
