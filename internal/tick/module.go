package tick

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/duskforge/voxelcore/config"
	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/registry"
	"github.com/duskforge/voxelcore/internal/metrics"
)

// noopConfigHandler is the default ConfigPacketHandler: draining a
// participant's inbound packet queue is an I/O-layer concern external to
// this core (spec §1 non-goal "does not marshal packets"), so wiring
// defaults to a no-op until a real transport layer supplies one.
type noopConfigHandler struct{}

func (noopConfigHandler) DrainConfigPackets(*model.Participant) {}

func newHandler() ConfigPacketHandler { return noopConfigHandler{} }

// noopSpawner is the default Spawner: world entry is an external
// simulator's concern (spec §1 non-goal "does not itself decide
// simulation placement"), so wiring defaults to a no-op — the returned
// nil future means INSIDE_TEST has nothing to wait on — until a real
// world/instance simulator supplies one.
type noopSpawner struct{}

func (noopSpawner) InitiateWorldEntry(*model.Participant) *model.SpawnFuture { return nil }

func newSpawner() Spawner { return noopSpawner{} }

func newDriver(cfg *config.Config, reg *registry.Registry, clock model.Clock, handler ConfigPacketHandler, spawner Spawner, recorder *metrics.Recorder, logger *slog.Logger) *Driver {
	return NewDriver(reg, clock, handler, spawner, recorder, logger, cfg.KeepAliveDelay.Nanoseconds(), cfg.KeepAliveKick.Nanoseconds(), cfg.InsideTest)
}

// Module wires C6's tick driver and drives it on a time.Ticker at the
// configured tick interval, stopping cleanly on fx shutdown.
var Module = fx.Module("tick",
	fx.Provide(
		newHandler,
		newSpawner,
		newDriver,
	),

	fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, d *Driver, clock model.Clock) {
		stop := make(chan struct{})

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				ticker := time.NewTicker(cfg.TickInterval)
				go func() {
					defer ticker.Stop()
					for {
						select {
						case <-ticker.C:
							d.Tick(clock.NowNano())
						case <-stop:
							return
						}
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				close(stop)
				return nil
			},
		})
	}),
)
