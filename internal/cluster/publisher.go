package cluster

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const BroadcastExchange = "voxelcore.cluster"

// Publisher is the domain-facing wrapper over message.Publisher, mirroring
// the teacher's EventDispatcher: callers stay agnostic of the transport,
// only dealing in cluster.Event values.
type Publisher struct {
	pub message.Publisher
}

// NewPublisher wraps an already-built watermill publisher.
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// Publish marshals ev and sends it under its own routing key.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	payload, err := marshal(ev)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.pub.Publish(ev.RoutingKey(), msg); err != nil {
		return fmt.Errorf("cluster: publish %s: %w", ev.RoutingKey(), err)
	}
	return nil
}

// Close releases the underlying transport connection.
func (p *Publisher) Close() error { return p.pub.Close() }
