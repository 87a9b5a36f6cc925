package cluster

import (
	"context"
	"log/slog"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

// ParticipantObserver adapts Publisher to registry.Observer, turning
// join/leave transitions into ParticipantJoinedEvent/ParticipantLeftEvent
// fan-out for the rest of the cluster. Publish failures are logged, not
// surfaced — a dropped cluster broadcast never blocks a local player's
// own transition (registry.Observer has no error return).
type ParticipantObserver struct {
	publisher *Publisher
	node      string
	logger    *slog.Logger
}

// NewParticipantObserver binds a Publisher to this node's identity.
func NewParticipantObserver(publisher *Publisher, node NodeID, logger *slog.Logger) *ParticipantObserver {
	return &ParticipantObserver{publisher: publisher, node: string(node), logger: logger}
}

// OnJoin implements registry.Observer.
func (o *ParticipantObserver) OnJoin(p *model.Participant) {
	profile := p.Profile()
	ev := ParticipantJoinedEvent{UUID: profile.UUID, Username: profile.Username, Node: o.node}
	if err := o.publisher.Publish(context.Background(), ev); err != nil {
		o.logger.Warn("cluster: failed to publish participant joined", "error", err)
	}
}

// OnLeave implements registry.Observer.
func (o *ParticipantObserver) OnLeave(p *model.Participant) {
	profile := p.Profile()
	ev := ParticipantLeftEvent{UUID: profile.UUID, Node: o.node}
	if err := o.publisher.Publish(context.Background(), ev); err != nil {
		o.logger.Warn("cluster: failed to publish participant left", "error", err)
	}
}
