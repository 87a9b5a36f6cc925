package mock

import (
	"sync"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

var _ model.EventBus = (*EventBus)(nil)

// EventBus is a mock implementation of [model.EventBus]. PreLoginFunc and
// ConfigurationFunc, if set, are invoked synchronously in place of a real
// handler chain; otherwise dispatch is a no-op, matching an event with no
// registered listeners.
type EventBus struct {
	mu sync.Mutex

	PreLoginFunc      func(ev *model.PreLoginEvent)
	ConfigurationFunc func(ev *model.ConfigurationEvent)

	PreLoginCalls      []*model.PreLoginEvent
	ConfigurationCalls []*model.ConfigurationEvent
}

func (b *EventBus) DispatchPreLogin(ev *model.PreLoginEvent) {
	b.mu.Lock()
	b.PreLoginCalls = append(b.PreLoginCalls, ev)
	fn := b.PreLoginFunc
	b.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func (b *EventBus) DispatchConfiguration(ev *model.ConfigurationEvent) {
	b.mu.Lock()
	b.ConfigurationCalls = append(b.ConfigurationCalls, ev)
	fn := b.ConfigurationFunc
	b.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}
