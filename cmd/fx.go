package cmd

import (
	"go.uber.org/fx"

	"github.com/duskforge/voxelcore/config"
	"github.com/duskforge/voxelcore/internal/admingrpc"
	"github.com/duskforge/voxelcore/internal/adminhttp"
	"github.com/duskforge/voxelcore/internal/cluster"
	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/registry"
	"github.com/duskforge/voxelcore/internal/eventbus"
	"github.com/duskforge/voxelcore/internal/registriesclient"
	"github.com/duskforge/voxelcore/internal/shutdown"
	"github.com/duskforge/voxelcore/internal/tick"
	"github.com/duskforge/voxelcore/internal/transition"
)

func provideTransitionConfig(cfg *config.Config) transition.Config {
	return transition.Config{
		CompressionThreshold:      cfg.CompressionThreshold,
		LoginPluginMessageTimeout: cfg.LoginPluginMessageTimeout,
		KnownPacksResponseTimeout: cfg.KnownPacksResponseTimeout,
	}
}

func provideClock() model.Clock { return model.SystemClock{} }

func provideAdminHTTPAddr(cfg *config.Config) adminhttp.Addr { return adminhttp.Addr(cfg.AdminHTTPAddr) }
func provideAdminGRPCAddr(cfg *config.Config) admingrpc.Addr { return admingrpc.Addr(cfg.AdminGRPCAddr) }
func provideAdminSecret(cfg *config.Config) admingrpc.SharedSecret {
	return admingrpc.SharedSecret(cfg.AdminSecret)
}
func provideAMQPURI(cfg *config.Config) cluster.AMQPURI { return cluster.AMQPURI(cfg.ClusterAMQPURI) }

// NewApp assembles the connection-lifecycle core and its ambient/domain
// surfaces into an fx.App, mirroring the teacher's fx.go composition:
// one fx.Provide block of process-wide singletons, followed by every
// subsystem's own Module.
func NewApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			ProvideLogger,
			ProvideWatermillLogger,
			provideTransitionConfig,
			provideClock,
			provideAdminHTTPAddr,
			provideAdminGRPCAddr,
			provideAdminSecret,
			provideAMQPURI,
		),

		registriesclient.Module,
		eventbus.Module,
		registry.Module,
		transition.Module,
		tick.Module,
		cluster.Module,
		adminhttp.Module,
		admingrpc.Module,
		shutdown.Module,
		otelModule,
	)
}
