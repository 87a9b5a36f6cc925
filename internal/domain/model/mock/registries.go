package mock

import (
	"github.com/duskforge/voxelcore/internal/domain/model"
)

var _ model.Registries = (*Registries)(nil)

// Registries is a mock implementation of [model.Registries] that returns
// a deterministic, empty packet for every kind, or Err for every kind
// when Err is set. Calls are recorded either way.
type Registries struct {
	Err error

	RegistryDataCalls []model.RegistryKind
	TagCalls          []model.RegistryKind
}

func (r *Registries) RegistryData(kind model.RegistryKind, excludeVanilla bool) (model.RegistryDataPacket, error) {
	r.RegistryDataCalls = append(r.RegistryDataCalls, kind)
	if r.Err != nil {
		return model.RegistryDataPacket{}, r.Err
	}
	return model.RegistryDataPacket{Kind: kind, ExcludeVanilla: excludeVanilla}, nil
}

func (r *Registries) TagDescriptor(kind model.RegistryKind) (model.TagDescriptor, error) {
	r.TagCalls = append(r.TagCalls, kind)
	if r.Err != nil {
		return model.TagDescriptor{}, r.Err
	}
	return model.TagDescriptor{Kind: kind}, nil
}
