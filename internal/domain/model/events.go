package model

// PreLoginEvent and ConfigurationEvent are the in-out parameter objects
// dispatched through the EventBus (§9 "Event dispatch"). Handlers run
// synchronously and mutate the record in place; the dispatching component
// observes the post-dispatch value once EventBus.Dispatch returns.

// PreLoginEvent carries the participant through the pre-login handshake
// (C3 step 2). A handler may rewrite Profile (uuid/username), stash
// login-plugin-message futures it initiated via Processor, and kick the
// connection outright.
type PreLoginEvent struct {
	Connection Connection
	Profile    Profile
	Processor  LoginPluginMessageProcessor

	// Replies accumulates the futures a handler started via Processor so
	// C3 step 5 knows what to await. Handlers append to this slice rather
	// than returning it, matching the "in-out parameter object" shape.
	Replies []<-chan LoginPluginReply
}

// AwaitReply registers a login-plugin-message future for C3 step 5 to wait on.
func (e *PreLoginEvent) AwaitReply(reply <-chan LoginPluginReply) {
	e.Replies = append(e.Replies, reply)
}

// ConfigurationEvent carries a participant through the configuration
// routine (C4 step 4). A handler may toggle feature flags, the chat-reset
// flag, the send-registry-data flag, set SpawnTarget/Hardcore, and kick.
type ConfigurationEvent struct {
	Participant *Participant
	IsFirstConfig bool

	// FeatureFlags is iterated in insertion order when building the
	// EnabledFeatures packet (C4 step 6); preserve order, don't rebuild
	// it as a map.
	FeatureFlags []string

	ChatReset        bool
	SendRegistryData bool

	SpawnTarget any
	Hardcore    bool
}

// EnableFeature appends a feature flag if not already present, preserving
// first-seen order.
func (e *ConfigurationEvent) EnableFeature(name string) {
	for _, existing := range e.FeatureFlags {
		if existing == name {
			return
		}
	}
	e.FeatureFlags = append(e.FeatureFlags, name)
}

// EventBus dispatches in-process, synchronous events to a handler chain
// that may mutate the event object in place (§6, §9). The core consumes
// this interface; it does not own the handler registration mechanism,
// only the dispatch call sites in C3/C4.
type EventBus interface {
	DispatchPreLogin(ev *PreLoginEvent)
	DispatchConfiguration(ev *ConfigurationEvent)
}
