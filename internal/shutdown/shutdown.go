// Package shutdown implements C7: the coordinated teardown that kicks
// every registered connection and clears all registry state, after which
// further create() calls are rejected. Grounded on the teacher's fx
// lifecycle hooks (OnStop) that drain and close collaborators in a fixed
// order before the process exits.
package shutdown

import (
	"context"
	"log/slog"

	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/registry"
	"github.com/duskforge/voxelcore/internal/metrics"
)

// HealthReporter flips the process health signal to not-serving before
// existing connections are kicked, so a load balancer or admin gRPC
// client stops routing new traffic here first (§4.7). Implemented by internal/admingrpc's health server.
type HealthReporter interface {
	SetNotServing()
}

// Coordinator runs C7's shutdown sequence exactly once.
type Coordinator struct {
	registry *registry.Registry
	health   HealthReporter
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

// NewCoordinator constructs the shutdown coordinator. health may be nil
// if no health surface is wired (e.g. in tests).
func NewCoordinator(reg *registry.Registry, health HealthReporter, recorder *metrics.Recorder, logger *slog.Logger) *Coordinator {
	return &Coordinator{registry: reg, health: health, metrics: recorder, logger: logger}
}

// Shutdown implements spec §4.7: kick everyone still in by-connection
// with the shutdown reason, then clear all sets and by-connection itself.
// Idempotent — a second call finds nothing left to kick.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	if c.health != nil {
		c.health.SetNotServing()
	}

	c.registry.MarkShutdown()

	conns := c.registry.AllConnections()
	c.logger.Info("shutting down registry", "connections", len(conns))
	for _, conn := range conns {
		c.metrics.RecordKick(ctx, string(model.KickShutdown))
		conn.Kick(model.KickShutdown)
	}

	c.registry.ClearAll()
	return nil
}
