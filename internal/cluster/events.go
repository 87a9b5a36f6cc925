// Package cluster fans participant lifecycle events out to the rest of a
// multi-node deployment over RabbitMQ, and listens for remote kick
// commands directed at a participant connected to this node. Grounded on
// the teacher's pubsub.EventDispatcher/amqp handler pair: one side
// marshals domain events onto a topic exchange, the other binds a
// per-node queue and routes inbound messages back into domain logic.
package cluster

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Event is anything this package can publish to the cluster exchange.
type Event interface {
	RoutingKey() string
}

// ParticipantJoinedEvent announces a participant entering PLAY on this node.
type ParticipantJoinedEvent struct {
	UUID     uuid.UUID `json:"uuid"`
	Username string    `json:"username"`
	Node     string    `json:"node"`
}

func (ParticipantJoinedEvent) RoutingKey() string { return "participant.joined" }

// ParticipantLeftEvent announces a participant's removal from this node.
type ParticipantLeftEvent struct {
	UUID uuid.UUID `json:"uuid"`
	Node string     `json:"node"`
}

func (ParticipantLeftEvent) RoutingKey() string { return "participant.left" }

// KickCommandEvent requests that whichever node currently holds uuid kick
// it with reason. Published by admin tooling, consumed by every node's
// Listener; only the node that actually holds the connection acts on it.
type KickCommandEvent struct {
	UUID   uuid.UUID `json:"uuid"`
	Reason string    `json:"reason"`
}

func (KickCommandEvent) RoutingKey() string { return "participant.kick_command" }

// marshal serializes an Event's payload for transport; the routing key
// itself travels as the AMQP topic, not inside the body.
func marshal(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("cluster: marshal %s: %w", ev.RoutingKey(), err)
	}
	return data, nil
}
