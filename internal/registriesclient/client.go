// Package registriesclient adapts an external registry-content source
// (wherever registry-data and tag descriptors actually live — a
// data-pack loader, a content service) into model.Registries, the narrow
// interface the connection-lifecycle core consumes. Grounded on the
// teacher's PeerEnricher: an LRU cache-aside in front of a remote
// lookup, wrapped in a circuit breaker so a struggling upstream degrades
// the core's configuration routine instead of hanging it.
package registriesclient

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sony/gobreaker"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

// Source is the real collaborator this client fronts: whatever loads
// registry/tag content from disk, a data pack, or a remote service.
type Source interface {
	RegistryData(kind model.RegistryKind, excludeVanilla bool) (model.RegistryDataPacket, error)
	TagDescriptor(kind model.RegistryKind) (model.TagDescriptor, error)
}

type registryCacheKey struct {
	kind           model.RegistryKind
	excludeVanilla bool
}

// Client implements model.Registries with an LRU cache-aside layer and a
// circuit breaker over Source, the same combination the teacher's
// PeerEnricher applies to the contact service.
//
// staleRegistryData/staleTagDescriptor hold the last successfully fetched
// value per key independent of the LRUs above: while the LRUs are the
// fast-path cache-aside layer (bounded, purged wholesale on an explicit
// invalidate), the stale maps back the breaker-open fallback (§4.8
// "stale-while-broken") and must survive both LRU eviction and
// InvalidateAll, or an invalidation right before an upstream outage would
// leave nothing to serve.
type Client struct {
	source Source

	registryCache *lru.Cache[registryCacheKey, model.RegistryDataPacket]
	tagCache      *lru.Cache[model.RegistryKind, model.TagDescriptor]

	breaker *gobreaker.CircuitBreaker

	staleMu            sync.RWMutex
	staleRegistryData  map[registryCacheKey]model.RegistryDataPacket
	staleTagDescriptor map[model.RegistryKind]model.TagDescriptor
}

var _ model.Registries = (*Client)(nil)

// New wraps source with a registry-data cache and a tag-descriptor cache
// of the given sizes, both protected by a shared circuit breaker.
func New(source Source, registryCacheSize, tagCacheSize int) (*Client, error) {
	registryCache, err := lru.New[registryCacheKey, model.RegistryDataPacket](registryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("registriesclient: registry cache: %w", err)
	}
	tagCache, err := lru.New[model.RegistryKind, model.TagDescriptor](tagCacheSize)
	if err != nil {
		return nil, fmt.Errorf("registriesclient: tag cache: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "registries-source",
	})

	return &Client{
		source:             source,
		registryCache:      registryCache,
		tagCache:           tagCache,
		breaker:            breaker,
		staleRegistryData:  make(map[registryCacheKey]model.RegistryDataPacket),
		staleTagDescriptor: make(map[model.RegistryKind]model.TagDescriptor),
	}, nil
}

// RegistryData implements model.Registries, consulting the cache first
// and falling back to the breaker-guarded source on a miss.
func (c *Client) RegistryData(kind model.RegistryKind, excludeVanilla bool) (model.RegistryDataPacket, error) {
	key := registryCacheKey{kind: kind, excludeVanilla: excludeVanilla}
	if cached, ok := c.registryCache.Get(key); ok {
		return cached, nil
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.source.RegistryData(kind, excludeVanilla)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			if stale, ok := c.getStaleRegistryData(key); ok {
				return stale, nil
			}
		}
		return model.RegistryDataPacket{}, fmt.Errorf("registriesclient: registry data for %s: %w", kind, err)
	}

	packet := result.(model.RegistryDataPacket)
	c.registryCache.Add(key, packet)
	c.setStaleRegistryData(key, packet)
	return packet, nil
}

// TagDescriptor implements model.Registries the same way as RegistryData.
func (c *Client) TagDescriptor(kind model.RegistryKind) (model.TagDescriptor, error) {
	if cached, ok := c.tagCache.Get(kind); ok {
		return cached, nil
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.source.TagDescriptor(kind)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			if stale, ok := c.getStaleTagDescriptor(kind); ok {
				return stale, nil
			}
		}
		return model.TagDescriptor{}, fmt.Errorf("registriesclient: tag descriptor for %s: %w", kind, err)
	}

	descriptor := result.(model.TagDescriptor)
	c.tagCache.Add(kind, descriptor)
	c.setStaleTagDescriptor(kind, descriptor)
	return descriptor, nil
}

func (c *Client) getStaleRegistryData(key registryCacheKey) (model.RegistryDataPacket, bool) {
	c.staleMu.RLock()
	defer c.staleMu.RUnlock()
	v, ok := c.staleRegistryData[key]
	return v, ok
}

func (c *Client) setStaleRegistryData(key registryCacheKey, v model.RegistryDataPacket) {
	c.staleMu.Lock()
	defer c.staleMu.Unlock()
	c.staleRegistryData[key] = v
}

func (c *Client) getStaleTagDescriptor(kind model.RegistryKind) (model.TagDescriptor, bool) {
	c.staleMu.RLock()
	defer c.staleMu.RUnlock()
	v, ok := c.staleTagDescriptor[kind]
	return v, ok
}

func (c *Client) setStaleTagDescriptor(kind model.RegistryKind, v model.TagDescriptor) {
	c.staleMu.Lock()
	defer c.staleMu.Unlock()
	c.staleTagDescriptor[kind] = v
}

// InvalidateAll purges the fast-path LRU caches, used alongside
// registry.InvalidateTags when upstream content changes (e.g. a data-pack
// reload). The stale-while-broken fallback maps are deliberately left
// intact: an invalidation right before an upstream outage must not erase
// the only value left to serve while the breaker is open.
func (c *Client) InvalidateAll() {
	c.registryCache.Purge()
	c.tagCache.Purge()
}
