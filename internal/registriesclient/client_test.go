package registriesclient

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

// tripAttempts is comfortably past gobreaker's default ReadyToTrip
// threshold (more than five consecutive failures) so a loop of this many
// failing calls reliably leaves the breaker open regardless of the exact
// boundary.
const tripAttempts = 10

// fakeSource is a Source whose RegistryData/TagDescriptor calls can be
// toggled to fail on demand, with call counts so tests can assert the
// breaker/cache actually short-circuited upstream calls rather than
// merely returning the right value by coincidence.
type fakeSource struct {
	mu sync.Mutex

	failRegistry  bool
	failTag       bool
	registryCalls int
	tagCalls      int
}

func (s *fakeSource) RegistryData(kind model.RegistryKind, excludeVanilla bool) (model.RegistryDataPacket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registryCalls++
	if s.failRegistry {
		return model.RegistryDataPacket{}, errors.New("fake: registry source unavailable")
	}
	return model.RegistryDataPacket{
		Kind:           kind,
		ExcludeVanilla: excludeVanilla,
		Entries:        [][]byte{[]byte(kind)},
	}, nil
}

func (s *fakeSource) TagDescriptor(kind model.RegistryKind) (model.TagDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tagCalls++
	if s.failTag {
		return model.TagDescriptor{}, errors.New("fake: tag source unavailable")
	}
	return model.TagDescriptor{Kind: kind, Tags: [][]byte{[]byte(kind)}}, nil
}

func (s *fakeSource) setFailRegistry(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRegistry = v
}

func (s *fakeSource) registryCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registryCalls
}

func TestClientRegistryDataCachesOnHit(t *testing.T) {
	source := &fakeSource{}
	client, err := New(source, 4096, 64)
	require.NoError(t, err)

	first, err := client.RegistryData(model.RegistryChatType, false)
	require.NoError(t, err)
	second, err := client.RegistryData(model.RegistryChatType, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.registryCallCount())
}

func TestClientRegistryDataPropagatesErrorWhenClosedAndNoStale(t *testing.T) {
	source := &fakeSource{failRegistry: true}
	client, err := New(source, 4096, 64)
	require.NoError(t, err)

	_, err = client.RegistryData(model.RegistryChatType, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry source unavailable")
}

func TestClientRegistryDataServesStaleWhileBreakerOpen(t *testing.T) {
	source := &fakeSource{}
	// registryCacheSize 1 so a second key's successful fetch evicts the
	// first from the fast-path LRU, forcing the later lookup through the
	// breaker-guarded path instead of a plain cache hit.
	client, err := New(source, 1, 64)
	require.NoError(t, err)

	chatPacket, err := client.RegistryData(model.RegistryChatType, false)
	require.NoError(t, err)
	_, err = client.RegistryData(model.RegistryDimensionType, false)
	require.NoError(t, err)

	source.setFailRegistry(true)
	for i := 0; i < tripAttempts; i++ {
		_, _ = client.RegistryData(model.RegistryBiome, false)
	}
	callsBeforeStaleLookup := source.registryCallCount()

	got, err := client.RegistryData(model.RegistryChatType, false)
	require.NoError(t, err)
	assert.Equal(t, chatPacket, got)
	assert.Equal(t, callsBeforeStaleLookup, source.registryCallCount(), "stale fallback must not call the source")
}

func TestClientInvalidateAllPreservesStaleFallback(t *testing.T) {
	source := &fakeSource{}
	client, err := New(source, 4096, 64)
	require.NoError(t, err)

	chatPacket, err := client.RegistryData(model.RegistryChatType, false)
	require.NoError(t, err)

	client.InvalidateAll()

	source.setFailRegistry(true)
	for i := 0; i < tripAttempts; i++ {
		_, _ = client.RegistryData(model.RegistryBiome, false)
	}
	callsBeforeStaleLookup := source.registryCallCount()

	got, err := client.RegistryData(model.RegistryChatType, false)
	require.NoError(t, err)
	assert.Equal(t, chatPacket, got)
	assert.Equal(t, callsBeforeStaleLookup, source.registryCallCount())
}

func TestClientTagDescriptorCachesAndServesStaleWhileBreakerOpen(t *testing.T) {
	source := &fakeSource{}
	client, err := New(source, 64, 1)
	require.NoError(t, err)

	biomeTag, err := client.TagDescriptor(model.RegistryBiome)
	require.NoError(t, err)
	_, err = client.TagDescriptor(model.RegistryBlocks)
	require.NoError(t, err)

	source.mu.Lock()
	source.failTag = true
	source.mu.Unlock()
	for i := 0; i < tripAttempts; i++ {
		_, _ = client.TagDescriptor(model.RegistryMaterial)
	}

	got, err := client.TagDescriptor(model.RegistryBiome)
	require.NoError(t, err)
	assert.Equal(t, biomeTag, got)
}
