// Package transition implements C3 (login→config) and C4 (the
// configuration routine): the two cooperative-task algorithms an I/O
// worker runs to carry a participant from LOGIN through CONFIG up to the
// moment it hands off to play. Grounded on the teacher's ws/grpc
// handlers' subscribe→dispatch→pump-loop→defer-cleanup shape, generalized
// from "relay one connection's events" to "drive one connection through a
// fixed multi-step protocol handshake."
package transition

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/metrics"
)

// Config holds the deadlines and thresholds named in spec §6 that C3/C4
// consult. Populated from the config package at process start.
type Config struct {
	CompressionThreshold     int
	LoginPluginMessageTimeout time.Duration
	KnownPacksResponseTimeout time.Duration
}

// Login drives C3: finalizes login for a freshly created participant's
// connection, returning the (possibly event-mutated) profile.
type Login struct {
	cfg     Config
	events  model.EventBus
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// NewLogin constructs the C3 transition, grounded on the teacher's
// constructor-injection style (NewWSHandler, NewPeerEnricherService).
func NewLogin(cfg Config, events model.EventBus, recorder *metrics.Recorder, logger *slog.Logger) *Login {
	return &Login{cfg: cfg, events: events, metrics: recorder, logger: logger}
}

// TransitionLoginToConfig implements spec §4.3 steps 1-6.
func (l *Login) TransitionLoginToConfig(ctx context.Context, conn model.Connection, profile model.Profile) (model.Profile, error) {
	// Step 1: compression.
	if l.cfg.CompressionThreshold > 0 {
		conn.StartCompression(l.cfg.CompressionThreshold)
	}

	// Step 2: PreLogin event; handler may mutate profile and stash
	// login-plugin-message futures.
	ev := &model.PreLoginEvent{
		Connection: conn,
		Profile:    profile.Clone(),
		Processor:  conn.LoginPluginMessageProcessor(),
	}
	l.events.DispatchPreLogin(ev)

	// Step 3: connection may have gone offline during dispatch.
	if !conn.IsOnline() {
		return ev.Profile, model.ErrPreLoginCancelled
	}

	// Step 4: adopt the (possibly mutated) profile.
	profile = ev.Profile

	// Step 5: await all outstanding login-plugin-message replies under a
	// single deadline, using errgroup the way the teacher's peer enricher
	// fans concurrent lookups out and waits on all of them together.
	if len(ev.Replies) > 0 {
		deadline := l.cfg.LoginPluginMessageTimeout
		if deadline <= 0 {
			deadline = 5 * time.Second
		}
		waitCtx, cancel := context.WithTimeout(ctx, deadline)
		defer cancel()

		g, gCtx := errgroup.WithContext(waitCtx)
		for _, reply := range ev.Replies {
			reply := reply
			g.Go(func() error {
				select {
				case r := <-reply:
					if r.Err != nil {
						return r.Err
					}
					return nil
				case <-gCtx.Done():
					return gCtx.Err()
				}
			})
		}
		if err := g.Wait(); err != nil {
			conn.Kick(model.KickInvalidProxyResponse)
			l.logger.Warn("login plugin message reply failed", "error", err)
			return profile, fmt.Errorf("%w: %v", model.ErrLoginPluginReplyFailed, err)
		}
	}

	// Step 6: login success.
	conn.Send(model.LoginSuccessPacket{Profile: profile})
	l.metrics.RecordLogin(ctx)
	return profile, nil
}
