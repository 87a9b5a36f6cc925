package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/model/mock"
)

func TestTagCacheBuildsOnceAndCaches(t *testing.T) {
	registries := &mock.Registries{}
	c := NewTagCache(registries)

	packet, err := c.Get()
	require.NoError(t, err)
	assert.Len(t, packet.Descriptors, len(model.TagRegistryOrder))
	firstCallCount := len(registries.TagCalls)

	_, err = c.Get()
	require.NoError(t, err)
	assert.Equal(t, firstCallCount, len(registries.TagCalls), "second Get must not rebuild")
}

func TestTagCacheInvalidateForcesRebuild(t *testing.T) {
	registries := &mock.Registries{}
	c := NewTagCache(registries)

	_, err := c.Get()
	require.NoError(t, err)
	firstCallCount := len(registries.TagCalls)

	c.Invalidate()

	_, err = c.Get()
	require.NoError(t, err)
	assert.Greater(t, len(registries.TagCalls), firstCallCount)
}

func TestTagCacheBuildFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	registries := &mock.Registries{Err: boom}
	c := NewTagCache(registries)

	_, err := c.Get()
	assert.ErrorIs(t, err, boom)
}
