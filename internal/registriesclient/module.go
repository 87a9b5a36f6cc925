package registriesclient

import (
	"github.com/duskforge/voxelcore/config"
	"github.com/duskforge/voxelcore/internal/domain/model"
	"go.uber.org/fx"
)

func newSource() Source {
	return StaticSource{}
}

func newClient(cfg *config.Config, source Source) (*Client, error) {
	return New(source, cfg.RegistryCacheSize, cfg.TagCacheSize)
}

// Module wires the cache-aside, circuit-broken Registries implementation.
var Module = fx.Module("registriesclient",
	fx.Provide(
		newSource,
		newClient,
		fx.Annotate(
			func(c *Client) model.Registries { return c },
			fx.As(new(model.Registries)),
		),
	),
)
