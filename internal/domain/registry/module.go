package registry

import (
	"go.uber.org/fx"

	"github.com/duskforge/voxelcore/config"
)

// newRegistry adapts the variadic New constructor for fx, which cannot
// satisfy a variadic Option parameter from the dependency graph.
func newRegistry(cfg *config.Config, tags *TagCache) *Registry {
	return New(tags, WithClosestUsernameCacheSize(cfg.ClosestUsernameCacheSize))
}

// Module wires C1's tag cache and C2/C5's participant registry into the
// fx graph, mirroring the teacher's registry.Module shape.
var Module = fx.Module("registry",
	fx.Provide(
		NewTagCache,
		newRegistry,
	),
)
