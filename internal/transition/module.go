package transition

import (
	"go.uber.org/fx"

	"github.com/duskforge/voxelcore/internal/domain/registry"
)

func newRegistrySets(r *registry.Registry) registrySets { return r }

// Module wires C3's Login transition and C4's Configuration routine.
var Module = fx.Module("transition",
	fx.Provide(
		newRegistrySets,
		NewLogin,
		NewConfiguration,
	),
)
