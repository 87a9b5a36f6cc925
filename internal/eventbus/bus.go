// Package eventbus provides the default, in-process model.EventBus
// implementation: a synchronous handler chain invoked in registration
// order, matching spec §6's "dispatch(event) is synchronous; handlers
// may mutate the event in place." Grounded on the teacher's handler
// registration style (fx.Provide of concrete collaborators wired by
// interface), generalized from one fixed handler per event kind to an
// ordered chain.
package eventbus

import (
	"sync"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

var _ model.EventBus = (*Bus)(nil)

// Bus dispatches PreLogin and Configuration events to every registered
// handler in registration order, synchronously, on the calling goroutine.
type Bus struct {
	mu             sync.RWMutex
	preLogin       []func(*model.PreLoginEvent)
	configuration  []func(*model.ConfigurationEvent)
}

// New returns an empty Bus with no handlers registered.
func New() *Bus {
	return &Bus{}
}

// OnPreLogin registers a handler invoked on every PreLogin dispatch, in
// the order handlers were registered.
func (b *Bus) OnPreLogin(handler func(*model.PreLoginEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.preLogin = append(b.preLogin, handler)
}

// OnConfiguration registers a handler invoked on every Configuration dispatch.
func (b *Bus) OnConfiguration(handler func(*model.ConfigurationEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.configuration = append(b.configuration, handler)
}

func (b *Bus) DispatchPreLogin(ev *model.PreLoginEvent) {
	b.mu.RLock()
	handlers := append([]func(*model.PreLoginEvent){}, b.preLogin...)
	b.mu.RUnlock()
	for _, h := range handlers {
		h(ev)
	}
}

func (b *Bus) DispatchConfiguration(ev *model.ConfigurationEvent) {
	b.mu.RLock()
	handlers := append([]func(*model.ConfigurationEvent){}, b.configuration...)
	b.mu.RUnlock()
	for _, h := range handlers {
		h(ev)
	}
}
