// Package adminws streams a live feed of participant lifecycle events
// (joined/left/kicked) to admin dashboards over a websocket. Adapted
// from the teacher's ws/delivery.go subscribe→pump-loop→defer-cleanup
// handler, generalized from per-user message delivery to a single
// broadcast feed every admin connection receives.
package adminws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

// LifecycleEvent is one line of the admin feed.
type LifecycleEvent struct {
	Kind     string `json:"kind"`
	UUID     string `json:"uuid"`
	Username string `json:"username,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Feed fans lifecycle events out to every subscribed admin connection.
type Feed struct {
	logger    *slog.Logger
	upgrader  websocket.Upgrader
	subscribe chan chan LifecycleEvent
	unsubscribe chan chan LifecycleEvent
	publish   chan LifecycleEvent
}

// NewFeed constructs a Feed and starts its fan-out loop.
func NewFeed(logger *slog.Logger) *Feed {
	f := &Feed{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subscribe:   make(chan chan LifecycleEvent),
		unsubscribe: make(chan chan LifecycleEvent),
		publish:     make(chan LifecycleEvent, 256),
	}
	go f.run()
	return f
}

func (f *Feed) run() {
	subscribers := make(map[chan LifecycleEvent]struct{})
	for {
		select {
		case ch := <-f.subscribe:
			subscribers[ch] = struct{}{}
		case ch := <-f.unsubscribe:
			delete(subscribers, ch)
			close(ch)
		case ev := <-f.publish:
			for ch := range subscribers {
				select {
				case ch <- ev:
				default:
					// Slow admin client: drop rather than block the feed.
				}
			}
		}
	}
}

// Publish broadcasts ev to every currently subscribed admin connection.
func (f *Feed) Publish(ev LifecycleEvent) {
	select {
	case f.publish <- ev:
	default:
		f.logger.Warn("admin feed publish buffer full, dropping event")
	}
}

// ParticipantJoined is a convenience wrapper for the common event shapes.
func (f *Feed) ParticipantJoined(p *model.Participant) {
	profile := p.Profile()
	f.Publish(LifecycleEvent{Kind: "joined", UUID: profile.UUID.String(), Username: profile.Username})
}

// ParticipantLeft reports a participant's removal from the registry.
func (f *Feed) ParticipantLeft(p *model.Participant) {
	profile := p.Profile()
	f.Publish(LifecycleEvent{Kind: "left", UUID: profile.UUID.String()})
}

// ParticipantKicked reports a kick, including the reason.
func (f *Feed) ParticipantKicked(p *model.Participant, reason model.KickReason) {
	profile := p.Profile()
	f.Publish(LifecycleEvent{Kind: "kicked", UUID: profile.UUID.String(), Reason: string(reason)})
}

// OnJoin implements registry.Observer.
func (f *Feed) OnJoin(p *model.Participant) { f.ParticipantJoined(p) }

// OnLeave implements registry.Observer.
func (f *Feed) OnLeave(p *model.Participant) { f.ParticipantLeft(p) }

// ServeHTTP upgrades the request and pumps the feed to the client until
// it disconnects, mirroring the teacher's WSHandler.ServeHTTP shape.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Error("admin ws upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	ch := make(chan LifecycleEvent, 32)
	f.subscribe <- ch
	defer func() { f.unsubscribe <- ch }()

	f.logger.Info("admin ws opened")

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := ws.WriteJSON(ev); err != nil {
				f.logger.Warn("admin ws send failed", "error", err)
				return
			}
		}
	}
}
