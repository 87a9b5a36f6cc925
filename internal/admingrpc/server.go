// Package admingrpc hosts the gRPC health service (the standard
// grpc.health.v1 contract) behind a shared-secret interceptor chain, so
// an orchestrator can probe liveness/readiness and flip it to
// NOT_SERVING during C7 shutdown. Grounded on the teacher's
// infra/server/grpc interceptor wiring, generalized from a custom
// service registration to the stock health server plus go-grpc-middleware
// chaining and otelgrpc instrumentation.
package admingrpc

import (
	"context"
	"net"

	grpcmiddleware "github.com/grpc-ecosystem/go-grpc-middleware/v2"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Addr is the listen address for the admin gRPC server.
type Addr string

// Server owns the grpc.Server and the health service the shutdown
// coordinator flips to NOT_SERVING.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
}

// NewServer builds a grpc.Server with the standard interceptor chain
// (otelgrpc stats handler, shared-secret auth) and registers the health
// service under the empty service name, meaning "the whole process".
func NewServer(secret SharedSecret) *Server {
	healthServer := health.NewServer()

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmiddleware.ChainUnaryServer(UnaryAuthInterceptor(secret)),
		),
		grpc.ChainStreamInterceptor(
			grpcmiddleware.ChainStreamServer(StreamAuthInterceptor(secret)),
		),
	)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return &Server{grpcServer: grpcServer, health: healthServer}
}

// SetNotServing implements shutdown.HealthReporter: it flips the overall
// health status so callers stop routing new work here before existing
// connections are kicked.
func (s *Server) SetNotServing() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
}

// Serve listens on addr and blocks until the server stops.
func (s *Server) Serve(addr Addr) error {
	lis, err := net.Listen("tcp", string(addr))
	if err != nil {
		return err
	}
	return s.grpcServer.Serve(lis)
}

// GracefulStop drains in-flight RPCs before returning.
func (s *Server) GracefulStop(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}
}
