package cluster

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/registry"
	"github.com/duskforge/voxelcore/internal/metrics"
)

// Listener subscribes to cluster-wide kick commands and applies them
// locally when the target participant happens to be connected to this
// node, the same "process only if the target is connected to THIS node"
// locality filter the teacher's amqp.Bind applies per message.
type Listener struct {
	registry *registry.Registry
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

// NewListener constructs a Listener bound to reg.
func NewListener(reg *registry.Registry, recorder *metrics.Recorder, logger *slog.Logger) *Listener {
	return &Listener{registry: reg, metrics: recorder, logger: logger}
}

// HandleKickCommand is the watermill NoPublishHandlerFunc registered on
// the node-local kick-command queue.
func (l *Listener) HandleKickCommand(msg *message.Message) error {
	var ev KickCommandEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		l.logger.Error("cluster: decode kick command failed", "error", err, "msg_id", msg.UUID)
		return nil // poison-pill protection: ack and drop, matching the teacher's DECODE_FAILED path.
	}

	p, ok := l.registry.FindByUUID(ev.UUID)
	if !ok {
		return nil // not ours; another node owns this participant.
	}

	reason := model.KickReason(ev.Reason)
	if reason == "" {
		reason = model.KickShutdown
	}
	l.logger.Info("cluster: applying remote kick command", "uuid", ev.UUID, "reason", reason)
	l.metrics.RecordKick(context.Background(), string(reason))
	p.Connection().Kick(reason)
	return nil
}
