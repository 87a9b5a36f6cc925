package shutdown

import (
	"context"
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

func testRecorder(t *testing.T) *metrics.Recorder {
	t.Helper()
	r, err := metrics.New(noop.NewMeterProvider())
	require.NoError(t, err)
	return r
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingHealth struct {
	notServingCalls int
}

func (h *recordingHealth) SetNotServing() { h.notServingCalls++ }

func TestShutdownKicksEveryConnectionAndClearsRegistry(t *testing.T) {
	reg := registry.New(registry.NewTagCache(&mock.Registries{}))
	conns := make([]*mock.Connection, 3)
	for i := range conns {
		conns[i] = mock.NewConnection()
		p, err := reg.Create(conns[i], model.Profile{Username: "p"})
		require.NoError(t, err)
		reg.AddToPlay(p)
	}

	health := &recordingHealth{}
	c := NewCoordinator(reg, health, testRecorder(t), testLogger())

	require.NoError(t, c.Shutdown(context.Background()))

	for _, conn := range conns {
		assert.True(t, conn.Kicked)
		assert.Equal(t, model.KickShutdown, conn.KickReason)
	}
	assert.Equal(t, 1, health.notServingCalls)
	assert.Equal(t, 0, reg.OnlinePlayerCount())
	assert.Empty(t, reg.AllConnections())

	_, err := reg.Create(mock.NewConnection(), model.Profile{Username: "late"})
	assert.ErrorIs(t, err, model.ErrManagerShutdown)
}

func TestShutdownIsIdempotent(t *testing.T) {
	reg := registry.New(registry.NewTagCache(&mock.Registries{}))
	conn := mock.NewConnection()
	p, err := reg.Create(conn, model.Profile{Username: "alice"})
	require.NoError(t, err)
	reg.AddToPlay(p)

	c := NewCoordinator(reg, nil, testRecorder(t), testLogger())
	require.NoError(t, c.Shutdown(context.Background()))
	require.NoError(t, c.Shutdown(context.Background()))

	assert.True(t, conn.Kicked)
}

func TestShutdownToleratesNilHealthReporter(t *testing.T) {
	reg := registry.New(registry.NewTagCache(&mock.Registries{}))
	c := NewCoordinator(reg, nil, testRecorder(t), testLogger())
	assert.NoError(t, c.Shutdown(context.Background()))
}
