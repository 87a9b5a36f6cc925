package tick

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/model/mock"
	"github.com/duskforge/voxelcore/internal/domain/registry"
	"github.com/duskforge/voxelcore/internal/metrics"
)

const (
	testKeepAliveDelay = int64(15_000_000_000) // 15s in ns
	testKeepAliveKick  = int64(30_000_000_000) // 30s in ns
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecorder(t *testing.T) *metrics.Recorder {
	t.Helper()
	r, err := metrics.New(noop.NewMeterProvider())
	require.NoError(t, err)
	return r
}

func newTestDriver(t *testing.T) (*Driver, *registry.Registry) {
	t.Helper()
	reg := registry.New(registry.NewTagCache(&mock.Registries{}))
	d := NewDriver(reg, mock.NewClock(0), noopConfigHandler{}, noopSpawner{}, testRecorder(t), testLogger(), testKeepAliveDelay, testKeepAliveKick, false)
	return d, reg
}

// spawnerFunc adapts a plain func to Spawner for tests.
type spawnerFunc func(*model.Participant) *model.SpawnFuture

func (f spawnerFunc) InitiateWorldEntry(p *model.Participant) *model.SpawnFuture { return f(p) }

func TestDriverDrainHandoffMovesToPlayAndKeepAlive(t *testing.T) {
	d, reg := newTestDriver(t)
	conn := mock.NewConnection()
	p, err := reg.Create(conn, model.Profile{Username: "alice"})
	require.NoError(t, err)
	reg.AddToConfig(p)

	reg.Handoff().Push(p)
	d.Tick(0)

	assert.True(t, reg.InPlaySet(p))
	assert.False(t, reg.InConfigSet(p))
	assert.True(t, reg.InKeepAliveSet(p))
	assert.True(t, p.AnsweredKeepAlive())
	assert.Equal(t, model.PhasePlay, p.Phase())
}

func TestDriverDrainHandoffSkipsOfflineParticipant(t *testing.T) {
	d, reg := newTestDriver(t)
	conn := mock.NewConnection()
	p, err := reg.Create(conn, model.Profile{Username: "bob"})
	require.NoError(t, err)
	reg.AddToConfig(p)
	conn.SetOnline(false)

	reg.Handoff().Push(p)
	d.Tick(0)

	assert.False(t, reg.InPlaySet(p))
}

func TestDriverKeepAliveSendsPingExactlyPastDelay(t *testing.T) {
	d, reg := newTestDriver(t)
	conn := mock.NewConnection()
	p, err := reg.Create(conn, model.Profile{Username: "carol"})
	require.NoError(t, err)
	reg.AddToKeepAlive(p)
	p.SetLastKeepAlive(0)
	p.SetAnsweredKeepAlive(true)

	// Exactly at the boundary: age == delay is not yet "past" (strict >).
	d.Tick(testKeepAliveDelay)
	assert.False(t, conn.Kicked)
	assert.Empty(t, conn.Sent)

	// One nanosecond past the delay: a keep-alive ping goes out.
	d.Tick(testKeepAliveDelay + 1)
	require.Len(t, conn.Sent, 1)
	_, ok := conn.Sent[0].(model.KeepAlivePacket)
	assert.True(t, ok)
	assert.False(t, p.AnsweredKeepAlive())
}

func TestDriverKeepAliveKicksAtKickThreshold(t *testing.T) {
	d, reg := newTestDriver(t)
	conn := mock.NewConnection()
	p, err := reg.Create(conn, model.Profile{Username: "dave"})
	require.NoError(t, err)
	reg.AddToKeepAlive(p)
	p.SetLastKeepAlive(0)
	p.SetAnsweredKeepAlive(false)

	// age == kick threshold: the kick rule is >=, so this already fires.
	d.Tick(testKeepAliveKick)
	assert.True(t, conn.Kicked)
	assert.Equal(t, model.KickTimeout, conn.KickReason)
}

func TestDriverInterpretConfigPacketsCallsHandlerPerConfigMember(t *testing.T) {
	reg := registry.New(registry.NewTagCache(&mock.Registries{}))
	drained := 0
	handler := handlerFunc(func(*model.Participant) { drained++ })
	d := NewDriver(reg, mock.NewClock(0), handler, noopSpawner{}, testRecorder(t), testLogger(), testKeepAliveDelay, testKeepAliveKick, false)

	p1, err := reg.Create(mock.NewConnection(), model.Profile{Username: "e"})
	require.NoError(t, err)
	p2, err := reg.Create(mock.NewConnection(), model.Profile{Username: "f"})
	require.NoError(t, err)
	reg.AddToConfig(p1)
	reg.AddToConfig(p2)

	d.Tick(0)
	assert.Equal(t, 2, drained)
}

type handlerFunc func(*model.Participant)

func (f handlerFunc) DrainConfigPackets(p *model.Participant) { f(p) }

func TestDriverDrainHandoffInitiatesWorldEntryAndSetsPendingSpawn(t *testing.T) {
	reg := registry.New(registry.NewTagCache(&mock.Registries{}))
	var initiated *model.Participant
	future := model.NewSpawnFuture()
	spawner := spawnerFunc(func(p *model.Participant) *model.SpawnFuture {
		initiated = p
		return future
	})
	d := NewDriver(reg, mock.NewClock(0), noopConfigHandler{}, spawner, testRecorder(t), testLogger(), testKeepAliveDelay, testKeepAliveKick, false)

	conn := mock.NewConnection()
	p, err := reg.Create(conn, model.Profile{Username: "grace"})
	require.NoError(t, err)
	reg.AddToConfig(p)
	reg.Handoff().Push(p)

	d.Tick(0)

	assert.Same(t, p, initiated)
	assert.Same(t, future, p.PendingSpawn())
}

func TestDriverDrainHandoffAwaitsSpawnFutureInsideTest(t *testing.T) {
	reg := registry.New(registry.NewTagCache(&mock.Registries{}))
	future := model.NewSpawnFuture()
	completed := false
	spawner := spawnerFunc(func(*model.Participant) *model.SpawnFuture {
		completed = true
		future.Complete()
		return future
	})
	d := NewDriver(reg, mock.NewClock(0), noopConfigHandler{}, spawner, testRecorder(t), testLogger(), testKeepAliveDelay, testKeepAliveKick, true)

	conn := mock.NewConnection()
	p, err := reg.Create(conn, model.Profile{Username: "heidi"})
	require.NoError(t, err)
	reg.AddToConfig(p)
	reg.Handoff().Push(p)

	d.Tick(0)

	assert.True(t, completed)
	select {
	case <-p.PendingSpawn().Done():
	default:
		t.Fatal("expected spawn future to be complete after an inside-test tick")
	}
}

func TestDriverDrainHandoffDoesNotBlockOnNilSpawnFuture(t *testing.T) {
	reg := registry.New(registry.NewTagCache(&mock.Registries{}))
	d := NewDriver(reg, mock.NewClock(0), noopConfigHandler{}, noopSpawner{}, testRecorder(t), testLogger(), testKeepAliveDelay, testKeepAliveKick, true)

	conn := mock.NewConnection()
	p, err := reg.Create(conn, model.Profile{Username: "ivan"})
	require.NoError(t, err)
	reg.AddToConfig(p)
	reg.Handoff().Push(p)

	d.Tick(0)

	assert.True(t, reg.InPlaySet(p))
	assert.Nil(t, p.PendingSpawn())
}
