package transition

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/registry"
	"github.com/duskforge/voxelcore/internal/metrics"
)

const implementationBrand = "voxelcore"

// registrySets is the narrow subset of *registry.Registry the
// configuration routine mutates, kept as an interface so tests can swap
// in a lightweight fake without building a full Registry.
type registrySets interface {
	AddToConfig(p *model.Participant)
	AddToKeepAlive(p *model.Participant)
	RemoveFromKeepAlive(p *model.Participant)
	Tags() *registry.TagCache
}

// Configuration drives C4: the configuration routine that carries a participant
// from its first packet in CONFIG to FinishConfiguration.
type Configuration struct {
	cfg        Config
	events     model.EventBus
	registries model.Registries
	sets       registrySets
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

// NewConfiguration constructs the C4 transition.
func NewConfiguration(cfg Config, events model.EventBus, registries model.Registries, sets registrySets, recorder *metrics.Recorder, logger *slog.Logger) *Configuration {
	return &Configuration{cfg: cfg, events: events, registries: registries, sets: sets, metrics: recorder, logger: logger}
}

// DoConfiguration implements spec §4.4 steps 1-13.
func (c *Configuration) DoConfiguration(ctx context.Context, p *model.Participant, isFirstConfig bool) error {
	started := time.Now()
	defer func() { c.metrics.ObserveConfigurationDuration(ctx, time.Since(started)) }()

	conn := p.Connection()

	// Step 1.
	if isFirstConfig {
		c.sets.AddToConfig(p)
		c.sets.AddToKeepAlive(p)
	}

	// Step 2: brand.
	conn.Send(model.BrandPacket{Brand: implementationBrand})

	// Step 3: known-packs request, kept for step 9a.
	knownPacksFuture := conn.RequestKnownPacks(ctx, []model.KnownPackEntry{
		{Namespace: model.CorePackNamespace, ID: model.CorePackID, Version: "1"},
	})

	// Step 4: Configuration event.
	ev := &model.ConfigurationEvent{Participant: p, IsFirstConfig: isFirstConfig}
	c.events.DispatchConfiguration(ev)

	// Step 5.
	if !conn.IsOnline() {
		return nil
	}

	// Step 6: enabled features, order preserved.
	conn.Send(model.EnabledFeaturesPacket{Features: ev.FeatureFlags})

	// Step 7: spawn target is mandatory.
	if ev.SpawnTarget == nil {
		return model.ErrSpawnMissing
	}

	// Step 8.
	if ev.ChatReset {
		conn.Send(model.ResetChatPacket{})
	}

	// Step 9.
	if ev.SendRegistryData {
		if err := c.sendRegistryData(ctx, p, knownPacksFuture); err != nil {
			return err
		}
	}

	// Step 10: resource-pack wait, no deadline at this layer.
	if wait := p.PendingResourcePack(); wait != nil {
		select {
		case <-wait.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Step 11: quiet interval begins.
	c.sets.RemoveFromKeepAlive(p)

	// Step 12.
	p.SetPendingOptions(model.PendingOptions{SpawnTarget: ev.SpawnTarget, Hardcore: ev.Hardcore})

	// Step 13.
	conn.Send(model.FinishConfigurationPacket{})
	return nil
}

// sendRegistryData implements step 9a-d: the known-packs wait, the fixed
// registry-data broadcast order, and the cached tag packet.
func (c *Configuration) sendRegistryData(ctx context.Context, p *model.Participant, knownPacksFuture <-chan model.KnownPacksResult) error {
	conn := p.Connection()

	deadline := c.cfg.KnownPacksResponseTimeout
	if deadline <= 0 {
		deadline = 5 * time.Second
	}
	waitCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	var result model.KnownPacksResult
	select {
	case result = <-knownPacksFuture:
		if result.Err != nil {
			return fmt.Errorf("configuration: known packs request failed: %w", result.Err)
		}
	case <-waitCtx.Done():
		conn.Disconnect()
		c.logger.Warn("known packs response timed out", "player", p.Profile().Username)
		return model.ErrKnownPacksTimeout
	}

	excludeVanilla := false
	for _, entry := range result.Packs {
		if entry.IsCore() {
			excludeVanilla = true
			break
		}
	}

	for _, kind := range model.RegistryDataOrder {
		packet, err := c.registries.RegistryData(kind, excludeVanilla)
		if err != nil {
			return fmt.Errorf("configuration: registry data for %s: %w", kind, err)
		}
		conn.Send(model.RegistryDataPacketWire{Data: packet})
	}

	tags, err := c.sets.Tags().Get()
	if err != nil {
		return fmt.Errorf("configuration: tag packet: %w", err)
	}
	conn.Send(model.TagPacketWire{Data: tags})
	return nil
}
