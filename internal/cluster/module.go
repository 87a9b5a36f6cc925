package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/fx"

	"github.com/duskforge/voxelcore/internal/domain/registry"
)

// AMQPURI is the connection string for the cluster's RabbitMQ broker.
type AMQPURI string

// NodeID identifies this process in cluster-wide lifecycle events, so a
// remote node can tell its own participants apart from another node's.
type NodeID string

func newNodeID() (NodeID, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("cluster: resolve node id: %w", err)
	}
	return NodeID(host), nil
}

func newPublisher(uri AMQPURI, logger watermill.LoggerAdapter) (message.Publisher, error) {
	cfg := amqp.NewDurablePubSubConfig(string(uri), nil)
	return amqp.NewPublisher(cfg, logger)
}

func newSubscriber(uri AMQPURI, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	cfg := amqp.NewDurablePubSubConfig(string(uri), amqp.GenerateQueueNameTopicNameWithSuffix("voxelcore-node"))
	return amqp.NewSubscriber(cfg, logger)
}

func newRouter(logger watermill.LoggerAdapter) (*message.Router, error) {
	return message.NewRouter(message.RouterConfig{}, logger)
}

// Module wires the cluster fan-out publisher and the remote kick-command
// listener into the fx graph, matching the teacher's amqp.Module shape:
// build publisher/subscriber/router, register handlers, run the router
// as an fx lifecycle hook.
var Module = fx.Module("cluster",
	fx.Provide(
		newNodeID,
		newPublisher,
		newSubscriber,
		newRouter,
		NewPublisher,
		NewListener,
		NewParticipantObserver,
	),

	fx.Invoke(func(
		lc fx.Lifecycle,
		router *message.Router,
		sub message.Subscriber,
		listener *Listener,
		reg *registry.Registry,
		observer *ParticipantObserver,
		logger *slog.Logger,
	) {
		reg.AddObserver(observer)

		router.AddNoPublisherHandler(
			"kick-command-listener",
			KickCommandEvent{}.RoutingKey(),
			sub,
			listener.HandleKickCommand,
		)

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := router.Run(context.Background()); err != nil {
						logger.Error("cluster router stopped", "error", err)
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return router.Close()
			},
		})
	}),
)
