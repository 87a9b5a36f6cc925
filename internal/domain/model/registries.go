package model

// RegistryKind enumerates the protocol-visible registries this core
// broadcasts during configuration (C4 step 9c) and tagging (C1). Order
// matters: it is protocol-visible and fixed by spec §4.1/§4.4.
type RegistryKind string

const (
	RegistryChatType        RegistryKind = "chat_type"
	RegistryDimensionType   RegistryKind = "dimension_type"
	RegistryBiome           RegistryKind = "worldgen/biome"
	RegistryDialog          RegistryKind = "dialog"
	RegistryDamageType      RegistryKind = "damage_type"
	RegistryTrimMaterial    RegistryKind = "trim_material"
	RegistryTrimPattern     RegistryKind = "trim_pattern"
	RegistryBannerPattern   RegistryKind = "banner_pattern"
	RegistryEnchantment     RegistryKind = "enchantment"
	RegistryPaintingVariant RegistryKind = "painting_variant"
	RegistryJukeboxSong     RegistryKind = "jukebox_song"
	RegistryInstrument      RegistryKind = "instrument"
	RegistryWolfVariant     RegistryKind = "wolf_variant"
	RegistryWolfSoundVariant RegistryKind = "wolf_sound_variant"
	RegistryCatVariant      RegistryKind = "cat_variant"
	RegistryChickenVariant  RegistryKind = "chicken_variant"
	RegistryCowVariant      RegistryKind = "cow_variant"
	RegistryFrogVariant     RegistryKind = "frog_variant"
	RegistryPigVariant      RegistryKind = "pig_variant"

	// Additional kinds broadcast only via the tag packet (C1), not via
	// registry-data (C4 step 9c).
	RegistryBlocks    RegistryKind = "block"
	RegistryEntityType RegistryKind = "entity_type"
	RegistryFluid      RegistryKind = "fluid"
	RegistryGameEvent  RegistryKind = "game_event"
	RegistryMaterial   RegistryKind = "material"
)

// RegistryDataOrder is the fixed, protocol-visible order registry-data
// packets are sent in during C4 step 9c.
var RegistryDataOrder = []RegistryKind{
	RegistryChatType,
	RegistryDimensionType,
	RegistryBiome,
	RegistryDialog,
	RegistryDamageType,
	RegistryTrimMaterial,
	RegistryTrimPattern,
	RegistryBannerPattern,
	RegistryEnchantment,
	RegistryPaintingVariant,
	RegistryJukeboxSong,
	RegistryInstrument,
	RegistryWolfVariant,
	RegistryWolfSoundVariant,
	RegistryCatVariant,
	RegistryChickenVariant,
	RegistryCowVariant,
	RegistryFrogVariant,
	RegistryPigVariant,
}

// TagRegistryOrder is the fixed, protocol-visible order tag-registry
// descriptors are concatenated in when building the cached tag packet (C1).
var TagRegistryOrder = []RegistryKind{
	RegistryBannerPattern,
	RegistryBiome,
	RegistryBlocks,
	RegistryCatVariant,
	RegistryDamageType,
	RegistryDialog,
	RegistryEnchantment,
	RegistryEntityType,
	RegistryFluid,
	RegistryGameEvent,
	RegistryInstrument,
	RegistryMaterial,
	RegistryPaintingVariant,
}

// RegistryDataPacket is the serialized broadcast form of one registry,
// parameterised by whether vanilla entries were excluded (C4 step 9b/c).
type RegistryDataPacket struct {
	Kind          RegistryKind
	ExcludeVanilla bool
	Entries       [][]byte
}

// TagDescriptor is one registry's contribution to the tag packet.
type TagDescriptor struct {
	Kind RegistryKind
	Tags [][]byte
}

// TagPacket is the immutable, cacheable broadcast built by C1.
type TagPacket struct {
	Descriptors []TagDescriptor
}

// Registries is the consumed interface (§6) fronting the canonical
// game-content definitions. The core never owns the data; it only asks
// for the already-serialized broadcast forms.
type Registries interface {
	RegistryData(kind RegistryKind, excludeVanilla bool) (RegistryDataPacket, error)
	TagDescriptor(kind RegistryKind) (TagDescriptor, error)
}
