// Package metrics exposes OpenTelemetry instruments for the connection
// lifecycle: login/configuration throughput, kicks by reason, keep-alive
// timeouts, and configuration-routine latency. Grounded on the pack's
// otel SDK usage (go.opentelemetry.io/otel/metric), wired the way the
// teacher wires otelgrpc interceptors: constructed once, injected
// wherever a component needs to record an observation.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/duskforge/voxelcore"

// Recorder bundles every instrument this implementation emits.
type Recorder struct {
	meter metric.Meter

	logins            metric.Int64Counter
	kicks             metric.Int64Counter
	keepAliveTimeouts metric.Int64Counter
	configDuration    metric.Float64Histogram
}

// New builds a Recorder from the given meter provider.
func New(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	logins, err := meter.Int64Counter("voxelcore.logins.total",
		metric.WithDescription("Completed login-to-config transitions"))
	if err != nil {
		return nil, err
	}

	kicks, err := meter.Int64Counter("voxelcore.kicks.total",
		metric.WithDescription("Connections kicked, by reason"))
	if err != nil {
		return nil, err
	}

	keepAliveTimeouts, err := meter.Int64Counter("voxelcore.keepalive.timeouts.total",
		metric.WithDescription("Participants kicked for keep-alive silence"))
	if err != nil {
		return nil, err
	}

	configDuration, err := meter.Float64Histogram("voxelcore.configuration.duration",
		metric.WithDescription("Time spent in the configuration routine"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &Recorder{
		meter:             meter,
		logins:            logins,
		kicks:             kicks,
		keepAliveTimeouts: keepAliveTimeouts,
		configDuration:    configDuration,
	}, nil
}

// RegisterOnlinePlayersGauge wires an observable gauge that calls count
// on every collection cycle, used to expose Registry.OnlinePlayerCount
// without the registry package depending on metrics.
func (r *Recorder) RegisterOnlinePlayersGauge(count func() int64) error {
	_, err := r.meter.Int64ObservableGauge("voxelcore.players.online",
		metric.WithDescription("Participants currently in the play set"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(count())
			return nil
		}),
	)
	return err
}

// RecordLogin counts one completed C3 transition.
func (r *Recorder) RecordLogin(ctx context.Context) {
	r.logins.Add(ctx, 1)
}

// RecordKick counts one kick, tagged by reason.
func (r *Recorder) RecordKick(ctx context.Context, reason string) {
	r.kicks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordKeepAliveTimeout counts one C6b kick-for-silence.
func (r *Recorder) RecordKeepAliveTimeout(ctx context.Context) {
	r.keepAliveTimeouts.Add(ctx, 1)
}

// ObserveConfigurationDuration records how long one DoConfiguration call took.
func (r *Recorder) ObserveConfigurationDuration(ctx context.Context, d time.Duration) {
	r.configDuration.Record(ctx, d.Seconds())
}
