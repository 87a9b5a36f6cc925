package admingrpc

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/duskforge/voxelcore/internal/shutdown"
)

// Module wires the admin gRPC server, its Serve/GracefulStop lifecycle
// hook, and its binding as the shutdown coordinator's HealthReporter.
var Module = fx.Module("admingrpc",
	fx.Provide(
		NewServer,
		fx.Annotate(
			func(s *Server) shutdown.HealthReporter { return s },
			fx.As(new(shutdown.HealthReporter)),
		),
	),

	fx.Invoke(func(lc fx.Lifecycle, addr Addr, s *Server, logger *slog.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := s.Serve(addr); err != nil {
						logger.Error("admin grpc server stopped", "error", err)
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				s.GracefulStop(ctx)
				return nil
			},
		})
	}),
)
