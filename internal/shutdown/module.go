package shutdown

import (
	"context"

	"go.uber.org/fx"
)

// Module wires the shutdown coordinator and runs it as an fx OnStop hook.
// cmd/fx.go lists this module after the admin modules, and fx runs OnStop
// hooks in reverse order, so the coordinator runs before the admin
// servers stop (admingrpc.Module provides the HealthReporter this
// coordinator flips first).
var Module = fx.Module("shutdown",
	fx.Provide(NewCoordinator),

	fx.Invoke(func(lc fx.Lifecycle, c *Coordinator) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return c.Shutdown(ctx)
			},
		})
	}),
)
