package registry

import (
	"sync/atomic"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

// TagCache is C1: the cached tag packet broadcast to every participant
// entering configuration (C4 step 9d). It is built once from the
// Registries collaborator and rebuilt lazily the next time it is read
// after Invalidate — the teacher's pattern for process-wide derived
// state that changes only on an explicit external signal (a data-pack
// reload), never on the request path itself.
type TagCache struct {
	registries model.Registries
	cell       atomic.Pointer[model.TagPacket]
}

// NewTagCache wraps a Registries collaborator. The packet is built lazily
// on first Get, not eagerly here, so construction never fails.
func NewTagCache(registries model.Registries) *TagCache {
	return &TagCache{registries: registries}
}

// Get returns the cached tag packet, building it on first use or after
// the most recent Invalidate. Concurrent callers during a rebuild may
// each build their own packet; the last store wins and all are
// equivalent, so no lock is needed (the teacher's registry cache takes
// the same read-mostly, rebuild-is-idempotent shortcut).
func (c *TagCache) Get() (model.TagPacket, error) {
	if cached := c.cell.Load(); cached != nil {
		return *cached, nil
	}
	built, err := c.build()
	if err != nil {
		return model.TagPacket{}, err
	}
	c.cell.Store(&built)
	return built, nil
}

// Invalidate discards the cached packet. The next Get rebuilds it from
// the Registries collaborator (e.g. after a data-pack reload).
func (c *TagCache) Invalidate() {
	c.cell.Store(nil)
}

func (c *TagCache) build() (model.TagPacket, error) {
	descriptors := make([]model.TagDescriptor, 0, len(model.TagRegistryOrder))
	for _, kind := range model.TagRegistryOrder {
		d, err := c.registries.TagDescriptor(kind)
		if err != nil {
			return model.TagPacket{}, err
		}
		descriptors = append(descriptors, d)
	}
	return model.TagPacket{Descriptors: descriptors}, nil
}
