package registry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/model/mock"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(NewTagCache(&mock.Registries{}))
}

func newProfile(username string) model.Profile {
	return model.Profile{UUID: uuid.New(), Username: username}
}

func TestRegistryCreateRejectsDuplicateConnection(t *testing.T) {
	r := newTestRegistry(t)
	conn := mock.NewConnection()
	profile := newProfile("alice")

	p1, err := r.Create(conn, profile)
	require.NoError(t, err)
	require.NotNil(t, p1)

	_, err = r.Create(conn, profile)
	assert.ErrorIs(t, err, model.ErrAlreadyRegistered)
}

func TestRegistryCreateRejectsAfterShutdown(t *testing.T) {
	r := newTestRegistry(t)
	r.MarkShutdown()

	_, err := r.Create(mock.NewConnection(), newProfile("bob"))
	assert.ErrorIs(t, err, model.ErrManagerShutdown)
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	r := newTestRegistry(t)
	conn := mock.NewConnection()
	p, err := r.Create(conn, newProfile("carol"))
	require.NoError(t, err)
	obs := &recordingObserver{}
	r.AddObserver(obs)

	r.AddToPlay(p)
	require.Equal(t, 1, r.OnlinePlayerCount())

	r.Remove(conn)
	assert.Equal(t, 0, r.OnlinePlayerCount())
	_, ok := r.Get(conn)
	assert.False(t, ok)

	// second removal must not panic or double-notify observers.
	r.Remove(conn)
	assert.Equal(t, 0, r.OnlinePlayerCount())
	assert.Len(t, obs.left, 1)
}

func TestRegistryObserversNotifiedOnJoinAndLeave(t *testing.T) {
	r := newTestRegistry(t)
	conn := mock.NewConnection()
	p, err := r.Create(conn, newProfile("dave"))
	require.NoError(t, err)

	obs := &recordingObserver{}
	r.AddObserver(obs)

	r.AddToPlay(p)
	require.Len(t, obs.joined, 1)
	assert.Equal(t, p, obs.joined[0])

	r.Remove(conn)
	require.Len(t, obs.left, 1)
	assert.Equal(t, p, obs.left[0])
}

func TestFindByUUIDAndExactUsername(t *testing.T) {
	r := newTestRegistry(t)
	conn := mock.NewConnection()
	profile := newProfile("Eve")
	p, err := r.Create(conn, profile)
	require.NoError(t, err)
	r.AddToPlay(p)

	found, ok := r.FindByUUID(profile.UUID)
	require.True(t, ok)
	assert.Same(t, p, found)

	found, ok = r.FindByExactUsername("eve")
	require.True(t, ok)
	assert.Same(t, p, found)

	_, ok = r.FindByUUID(uuid.New())
	assert.False(t, ok)
}

func TestFindClosestUsernamePrefersExactThenSimilarity(t *testing.T) {
	r := newTestRegistry(t)

	add := func(username string) *model.Participant {
		conn := mock.NewConnection()
		p, err := r.Create(conn, newProfile(username))
		require.NoError(t, err)
		r.AddToPlay(p)
		return p
	}

	add("Steve")
	exact := add("steve2")

	p, ok := r.FindClosestUsername("steve2")
	require.True(t, ok)
	assert.Same(t, exact, p)

	p, ok = r.FindClosestUsername("Steve2x")
	require.True(t, ok)
	assert.Equal(t, "steve2", p.Profile().Username)
}

func TestFindClosestUsernameEmptyPlaySet(t *testing.T) {
	r := newTestRegistry(t)
	_, ok := r.FindClosestUsername("anyone")
	assert.False(t, ok)
}

func TestFindClosestUsernameCachesFuzzyResult(t *testing.T) {
	r := newTestRegistry(t)

	conn := mock.NewConnection()
	p, err := r.Create(conn, newProfile("Steve2"))
	require.NoError(t, err)
	r.AddToPlay(p)

	first, ok := r.FindClosestUsername("Steve2x")
	require.True(t, ok)
	assert.Same(t, p, first)

	// The fuzzy result is memoized under the lower-cased query, and the
	// repeated lookup returns the same participant.
	assert.True(t, r.closestUsernameCache.Contains("steve2x"))
	second, ok := r.FindClosestUsername("Steve2x")
	require.True(t, ok)
	assert.Same(t, p, second)
}

func TestFindClosestUsernameCacheInvalidatedOnLeave(t *testing.T) {
	r := newTestRegistry(t)

	conn := mock.NewConnection()
	p, err := r.Create(conn, newProfile("Steve2"))
	require.NoError(t, err)
	r.AddToPlay(p)

	_, ok := r.FindClosestUsername("Steve2x")
	require.True(t, ok)

	r.Remove(conn)

	_, ok = r.FindClosestUsername("Steve2x")
	assert.False(t, ok, "a stale cache entry must not outlive the participant's departure from the play set")
}

func TestFindClosestUsernameCacheInvalidatedOnNewJoinWithBetterMatch(t *testing.T) {
	r := newTestRegistry(t)

	conn1 := mock.NewConnection()
	p1, err := r.Create(conn1, newProfile("Steve"))
	require.NoError(t, err)
	r.AddToPlay(p1)

	first, ok := r.FindClosestUsername("Steve2x")
	require.True(t, ok)
	assert.Same(t, p1, first)

	conn2 := mock.NewConnection()
	p2, err := r.Create(conn2, newProfile("Steve2"))
	require.NoError(t, err)
	r.AddToPlay(p2)

	second, ok := r.FindClosestUsername("Steve2x")
	require.True(t, ok)
	assert.Same(t, p2, second)
}

func TestSendRegistryTagsUsesCachedPacket(t *testing.T) {
	r := newTestRegistry(t)
	conn := mock.NewConnection()
	p, err := r.Create(conn, newProfile("frank"))
	require.NoError(t, err)

	require.NoError(t, r.SendRegistryTags(p))
	require.Len(t, conn.Sent, 1)

	r.InvalidateTags()
	require.NoError(t, r.SendRegistryTags(p))
	require.Len(t, conn.Sent, 2)
}

type recordingObserver struct {
	joined []*model.Participant
	left   []*model.Participant
}

func (o *recordingObserver) OnJoin(p *model.Participant)  { o.joined = append(o.joined, p) }
func (o *recordingObserver) OnLeave(p *model.Participant) { o.left = append(o.left, p) }
