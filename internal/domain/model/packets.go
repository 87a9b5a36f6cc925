package model

// Wire packets are protocol-fixed and not redefined by this spec (§6);
// the core only needs enough of a shape to construct and hand them to
// Connection.Send. These are intentionally thin marker structs — actual
// encoding is an external collaborator's job.

// LoginSuccessPacket finalizes login (C3 step 6).
type LoginSuccessPacket struct {
	Profile Profile
}

// StartConfigurationPacket is sent on PLAY→CONFIG re-entry (§6 transition_play_to_config).
type StartConfigurationPacket struct{}

// BrandPacket identifies this implementation to the client (C4 step 2).
type BrandPacket struct {
	Brand string
}

// EnabledFeaturesPacket announces the active feature-flag set (C4 step 6).
type EnabledFeaturesPacket struct {
	Features []string
}

// ResetChatPacket clears the client's chat state (C4 step 8).
type ResetChatPacket struct{}

// RegistryDataPacketWire is the wire form of one RegistryDataPacket (C4 step 9c).
type RegistryDataPacketWire struct {
	Data RegistryDataPacket
}

// TagPacketWire is the wire form of the cached tag packet (C4 step 9d, §4.1).
type TagPacketWire struct {
	Data TagPacket
}

// FinishConfigurationPacket ends the configuration routine (C4 step 13).
type FinishConfigurationPacket struct{}

// KeepAlivePacket is the periodic liveness ping (C6b).
type KeepAlivePacket struct {
	SentAt int64
}
