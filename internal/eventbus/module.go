package eventbus

import (
	"go.uber.org/fx"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

// Module wires the default in-process event bus.
var Module = fx.Module("eventbus",
	fx.Provide(
		New,
		fx.Annotate(
			func(b *Bus) model.EventBus { return b },
			fx.As(new(model.EventBus)),
		),
	),
)
