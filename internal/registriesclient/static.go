package registriesclient

import "github.com/duskforge/voxelcore/internal/domain/model"

// StaticSource is a trivial Source returning an empty packet for every
// kind. It is the default wiring target when no real content
// loader (a data-pack directory, a remote content service) is
// configured — ownership of registry/tag content is explicitly outside
// this core's scope, mirroring the teacher's mockEnrich fallback for
// peer types it doesn't yet enrich.
type StaticSource struct{}

var _ Source = StaticSource{}

func (StaticSource) RegistryData(kind model.RegistryKind, excludeVanilla bool) (model.RegistryDataPacket, error) {
	return model.RegistryDataPacket{Kind: kind, ExcludeVanilla: excludeVanilla}, nil
}

func (StaticSource) TagDescriptor(kind model.RegistryKind) (model.TagDescriptor, error) {
	return model.TagDescriptor{Kind: kind}, nil
}
