package cmd

import (
	"context"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"

	"github.com/duskforge/voxelcore/internal/domain/registry"
	"github.com/duskforge/voxelcore/internal/metrics"
)

// provideMeterProvider builds the process-wide metric.MeterProvider. No
// exporter is registered by default (referenced collector endpoints are
// a deployment concern); readers can be attached by wrapping this
// constructor in the deployment's own fx.Decorate.
func provideMeterProvider() metric.MeterProvider {
	return sdkmetric.NewMeterProvider()
}

// provideLoggerProvider builds the process-wide log.LoggerProvider
// backing the otelslog bridge in cmd/logger.go. No processor/exporter is
// attached by default, same stance as provideMeterProvider.
func provideLoggerProvider() log.LoggerProvider {
	return sdklog.NewLoggerProvider()
}

// otelModule wires the metrics.Recorder and registers the online-players
// observable gauge against the live registry.
var otelModule = fx.Module("otel",
	fx.Provide(
		provideMeterProvider,
		provideLoggerProvider,
		metrics.New,
	),

	fx.Invoke(func(lc fx.Lifecycle, provider metric.MeterProvider, logProvider log.LoggerProvider, recorder *metrics.Recorder, reg *registry.Registry) error {
		if err := recorder.RegisterOnlinePlayersGauge(func() int64 {
			return int64(reg.OnlinePlayerCount())
		}); err != nil {
			return err
		}

		type shutdownable interface{ Shutdown(context.Context) error }

		if shutdowner, ok := provider.(shutdownable); ok {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return shutdowner.Shutdown(ctx)
				},
			})
		}
		if shutdowner, ok := logProvider.(shutdownable); ok {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return shutdowner.Shutdown(ctx)
				},
			})
		}
		return nil
	}),
)
