// Package tick implements C6: the simulation-thread driver that drains
// the handoff queue, runs the keep-alive liveness rule, and pumps
// config-phase packets, once per fixed simulation interval. Grounded on
// the teacher's Hub being the single owner of cell lifecycle mutation;
// here the tick driver is the single owner of every play-set/keep-alive
// mutation, matching spec §5's "simulation thread" scheduling model.
package tick

import (
	"context"
	"log/slog"

	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/registry"
	"github.com/duskforge/voxelcore/internal/metrics"
)

// ConfigPacketHandler drains a participant's inbound packet queue while
// it sits in CONFIG (C6c). The inbound queue itself is an external I/O
// collaborator's concern; the driver only calls into it once per tick
// per config-set member.
type ConfigPacketHandler interface {
	DrainConfigPackets(p *model.Participant)
}

// Spawner initiates world entry for a participant handed off from CONFIG
// (C6a). The world/instance simulator itself is an external collaborator
// (spec §1); the driver only calls into it once per drained participant
// and, in INSIDE_TEST mode only, awaits the returned future before moving
// on to the next one.
type Spawner interface {
	InitiateWorldEntry(p *model.Participant) *model.SpawnFuture
}

// Driver runs C6's tick(t) once per simulation interval.
type Driver struct {
	registry *registry.Registry
	clock    model.Clock
	handler  ConfigPacketHandler
	spawner  Spawner
	metrics  *metrics.Recorder
	logger   *slog.Logger

	keepAliveDelay int64
	keepAliveKick  int64
	insideTest     bool
}

// NewDriver constructs the tick driver. keepAliveDelay/keepAliveKick are
// in nanoseconds, matching Clock.NowNano's unit; keepAliveDelay must be
// strictly less than keepAliveKick (spec §4.6). insideTest mirrors
// INSIDE_TEST (§6): when true, drainHandoff blocks on each participant's
// spawn future before moving to the next one; production leaves it false
// and never waits.
func NewDriver(reg *registry.Registry, clock model.Clock, handler ConfigPacketHandler, spawner Spawner, recorder *metrics.Recorder, logger *slog.Logger, keepAliveDelay, keepAliveKick int64, insideTest bool) *Driver {
	return &Driver{
		registry:       reg,
		clock:          clock,
		handler:        handler,
		spawner:        spawner,
		metrics:        recorder,
		logger:         logger,
		keepAliveDelay: keepAliveDelay,
		keepAliveKick:  keepAliveKick,
		insideTest:     insideTest,
	}
}

// Tick runs the three steps of spec §4.6 in order for tick start time t.
func (d *Driver) Tick(t int64) {
	d.drainHandoff()
	d.keepAlive(t)
	d.interpretConfigPackets()
}

// drainHandoff is step (a): move every participant the handoff queue
// delivers from config-set into play-set and keep-alive-set, forgiving
// any keep-alive owed from the CONFIG phase, then initiates world entry.
// Production never waits on the resulting spawn future; INSIDE_TEST mode
// awaits it inline so a test can observe the participant fully spawned
// before moving on.
func (d *Driver) drainHandoff() {
	for _, p := range d.registry.Handoff().Drain() {
		if !p.IsOnline() {
			continue
		}
		d.registry.RemoveFromConfig(p)
		d.registry.AddToPlay(p)
		d.registry.AddToKeepAlive(p)
		p.SetAnsweredKeepAlive(true)
		p.SetPhase(model.PhasePlay)

		future := d.spawner.InitiateWorldEntry(p)
		p.SetPendingSpawn(future)
		if d.insideTest && future != nil {
			<-future.Done()
		}
	}
}

// keepAlive is step (b): the liveness rule applied to every current
// keep-alive-set member.
func (d *Driver) keepAlive(t int64) {
	d.registry.ForEachKeepAlive(func(p *model.Participant) {
		age := t - p.LastKeepAlive()
		switch {
		case age > d.keepAliveDelay && p.AnsweredKeepAlive():
			p.SetLastKeepAlive(t)
			p.SetAnsweredKeepAlive(false)
			p.Connection().Send(model.KeepAlivePacket{SentAt: t})
		case age >= d.keepAliveKick:
			d.logger.Warn("keep-alive timeout, kicking", "player", p.Profile().Username)
			d.metrics.RecordKeepAliveTimeout(context.Background())
			d.metrics.RecordKick(context.Background(), string(model.KickTimeout))
			p.Connection().Kick(model.KickTimeout)
		}
	})
}

// interpretConfigPackets is step (c): cooperative scheduling for
// config-phase inbound packets on the simulation thread.
func (d *Driver) interpretConfigPackets() {
	if d.handler == nil {
		return
	}
	d.registry.ForEachConfig(func(p *model.Participant) {
		d.handler.DrainConfigPackets(p)
	})
}
