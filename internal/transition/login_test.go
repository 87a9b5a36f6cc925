package transition

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/model/mock"
	"github.com/duskforge/voxelcore/internal/metrics"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecorder(t *testing.T) *metrics.Recorder {
	t.Helper()
	r, err := metrics.New(noop.NewMeterProvider())
	require.NoError(t, err)
	return r
}

func TestLoginHappyPathSendsSuccess(t *testing.T) {
	bus := &mock.EventBus{}
	login := NewLogin(Config{}, bus, testRecorder(t), testLogger(t))
	conn := mock.NewConnection()
	profile := model.Profile{Username: "alice"}

	got, err := login.TransitionLoginToConfig(context.Background(), conn, profile)
	require.NoError(t, err)
	assert.Equal(t, profile.Username, got.Username)
	require.Len(t, bus.PreLoginCalls, 1)

	require.Len(t, conn.Sent, 1)
	success, ok := conn.Sent[0].(model.LoginSuccessPacket)
	require.True(t, ok)
	assert.Equal(t, profile.Username, success.Profile.Username)
}

func TestLoginAppliesCompressionThreshold(t *testing.T) {
	bus := &mock.EventBus{}
	login := NewLogin(Config{CompressionThreshold: 256}, bus, testRecorder(t), testLogger(t))
	conn := mock.NewConnection()

	_, err := login.TransitionLoginToConfig(context.Background(), conn, model.Profile{Username: "bob"})
	require.NoError(t, err)
	assert.True(t, conn.CompressionStarted)
	assert.Equal(t, 256, conn.CompressionThreshold)
}

func TestLoginAdoptsProfileMutatedByPreLoginHandler(t *testing.T) {
	bus := &mock.EventBus{
		PreLoginFunc: func(ev *model.PreLoginEvent) {
			ev.Profile.Username = "renamed"
		},
	}
	login := NewLogin(Config{}, bus, testRecorder(t), testLogger(t))
	conn := mock.NewConnection()

	got, err := login.TransitionLoginToConfig(context.Background(), conn, model.Profile{Username: "carol"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Username)
}

func TestLoginCancelledWhenConnectionGoesOfflineDuringPreLogin(t *testing.T) {
	bus := &mock.EventBus{
		PreLoginFunc: func(ev *model.PreLoginEvent) {
			ev.Connection.(*mock.Connection).SetOnline(false)
		},
	}
	login := NewLogin(Config{}, bus, testRecorder(t), testLogger(t))
	conn := mock.NewConnection()

	_, err := login.TransitionLoginToConfig(context.Background(), conn, model.Profile{Username: "dave"})
	assert.ErrorIs(t, err, model.ErrPreLoginCancelled)
	assert.Empty(t, conn.Sent)
}

func TestLoginAwaitsLoginPluginReplyAndSucceeds(t *testing.T) {
	reply := make(chan model.LoginPluginReply, 1)
	reply <- model.LoginPluginReply{Data: []byte("ok")}
	bus := &mock.EventBus{
		PreLoginFunc: func(ev *model.PreLoginEvent) {
			ev.AwaitReply(reply)
		},
	}
	login := NewLogin(Config{LoginPluginMessageTimeout: time.Second}, bus, testRecorder(t), testLogger(t))
	conn := mock.NewConnection()

	_, err := login.TransitionLoginToConfig(context.Background(), conn, model.Profile{Username: "eve"})
	require.NoError(t, err)
	assert.False(t, conn.Kicked)
}

func TestLoginKicksOnLoginPluginReplyError(t *testing.T) {
	reply := make(chan model.LoginPluginReply, 1)
	reply <- model.LoginPluginReply{Err: errors.New("proxy rejected")}
	bus := &mock.EventBus{
		PreLoginFunc: func(ev *model.PreLoginEvent) {
			ev.AwaitReply(reply)
		},
	}
	login := NewLogin(Config{LoginPluginMessageTimeout: time.Second}, bus, testRecorder(t), testLogger(t))
	conn := mock.NewConnection()

	_, err := login.TransitionLoginToConfig(context.Background(), conn, model.Profile{Username: "frank"})
	assert.ErrorIs(t, err, model.ErrLoginPluginReplyFailed)
	assert.True(t, conn.Kicked)
	assert.Equal(t, model.KickInvalidProxyResponse, conn.KickReason)
}

func TestLoginKicksOnLoginPluginReplyTimeout(t *testing.T) {
	reply := make(chan model.LoginPluginReply) // never written to
	bus := &mock.EventBus{
		PreLoginFunc: func(ev *model.PreLoginEvent) {
			ev.AwaitReply(reply)
		},
	}
	login := NewLogin(Config{LoginPluginMessageTimeout: 10 * time.Millisecond}, bus, testRecorder(t), testLogger(t))
	conn := mock.NewConnection()

	_, err := login.TransitionLoginToConfig(context.Background(), conn, model.Profile{Username: "gwen"})
	assert.ErrorIs(t, err, model.ErrLoginPluginReplyFailed)
	assert.True(t, conn.Kicked)
	assert.Equal(t, model.KickInvalidProxyResponse, conn.KickReason)
}
