// Package model holds the value types and consumed-collaborator interfaces
// the connection-lifecycle core is built around: participants, profiles,
// phases, packets, and the external contracts (Connection, EventBus,
// Registries, Clock) described in spec §6.
package model

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Phase is the protocol subset currently active for a participant.
type Phase int32

const (
	PhaseLogin Phase = iota + 1
	PhaseConfig
	PhasePlay
)

func (p Phase) String() string {
	switch p {
	case PhaseLogin:
		return "LOGIN"
	case PhaseConfig:
		return "CONFIG"
	case PhasePlay:
		return "PLAY"
	default:
		return "UNKNOWN"
	}
}

// Property is one opaque key/value/signature tuple carried on a profile
// (e.g. a signed skin texture). The core never interprets these; it only
// transports them.
type Property struct {
	Name      string
	Value     string
	Signature string
}

// Profile is the identity tuple for a participant. It is mutable up to the
// end of the login→config transition (C3) and immutable thereafter.
type Profile struct {
	UUID       uuid.UUID
	Username   string
	Properties []Property
}

// Clone returns a deep-enough copy safe to hand to an event handler that
// may mutate it without racing the owner.
func (p Profile) Clone() Profile {
	out := p
	if len(p.Properties) > 0 {
		out.Properties = append([]Property(nil), p.Properties...)
	}
	return out
}

// PendingOptions is captured at the end of the configuration routine (C4)
// and consumed when the participant enters play.
type PendingOptions struct {
	SpawnTarget any
	Hardcore    bool
}

// Participant is one connected client, observed from the moment create()
// returns until remove() tears it down.
type Participant struct {
	conn    Connection
	profile atomic.Pointer[Profile]

	phaseMu sync.RWMutex
	phase   Phase

	lastKeepAlive      atomic.Int64
	answeredKeepAlive  atomic.Bool
	pendingResourcePack atomic.Pointer[ResourcePackWait]
	pendingSpawn        atomic.Pointer[SpawnFuture]

	pendingOptsMu sync.Mutex
	pendingOpts   *PendingOptions
}

// NewParticipant constructs a participant in the LOGIN phase. This is the
// default factory; a custom provider (§9 "Dynamic participant provider")
// also returns a *Participant, since registry.Provider's result type is
// fixed to it.
func NewParticipant(conn Connection, profile Profile) *Participant {
	p := &Participant{conn: conn, phase: PhaseLogin}
	p.profile.Store(&profile)
	return p
}

// Connection returns the transport handle backing this participant.
func (p *Participant) Connection() Connection { return p.conn }

// Profile returns a snapshot of the current identity tuple.
func (p *Participant) Profile() Profile { return *p.profile.Load() }

// SetProfile replaces the identity tuple. Callers must only do this up to
// the end of C3 (spec §3); nothing below enforces that beyond convention,
// mirroring how the original protocol core trusts its own call sites.
func (p *Participant) SetProfile(profile Profile) { p.profile.Store(&profile) }

// Phase returns the current protocol phase.
func (p *Participant) Phase() Phase {
	p.phaseMu.RLock()
	defer p.phaseMu.RUnlock()
	return p.phase
}

// SetPhase transitions the participant to a new phase.
func (p *Participant) SetPhase(phase Phase) {
	p.phaseMu.Lock()
	p.phase = phase
	p.phaseMu.Unlock()
}

// LastKeepAlive returns the monotonic timestamp (ns) of the last keep-alive sent.
func (p *Participant) LastKeepAlive() int64 { return p.lastKeepAlive.Load() }

// SetLastKeepAlive records the monotonic timestamp of an outgoing keep-alive.
func (p *Participant) SetLastKeepAlive(t int64) { p.lastKeepAlive.Store(t) }

// AnsweredKeepAlive reports whether the client has answered the most
// recent outgoing keep-alive.
func (p *Participant) AnsweredKeepAlive() bool { return p.answeredKeepAlive.Load() }

// SetAnsweredKeepAlive records whether the client answered the most recent keep-alive.
func (p *Participant) SetAnsweredKeepAlive(v bool) { p.answeredKeepAlive.Store(v) }

// ResourcePackWait is the future C4 step 10 waits on: it completes once
// every resource pack issued to the client has been accepted or declined.
type ResourcePackWait struct {
	done chan struct{}
	once sync.Once
}

// NewResourcePackWait returns a new, incomplete wait handle.
func NewResourcePackWait() *ResourcePackWait {
	return &ResourcePackWait{done: make(chan struct{})}
}

// Complete marks every issued resource pack as resolved. Idempotent.
func (w *ResourcePackWait) Complete() { w.once.Do(func() { close(w.done) }) }

// Done returns a channel closed once the wait completes.
func (w *ResourcePackWait) Done() <-chan struct{} { return w.done }

// PendingResourcePack returns the in-flight resource-pack wait, or nil if none is set.
func (p *Participant) PendingResourcePack() *ResourcePackWait {
	return p.pendingResourcePack.Load()
}

// SetPendingResourcePack installs (or clears, with nil) the resource-pack wait.
func (p *Participant) SetPendingResourcePack(w *ResourcePackWait) {
	p.pendingResourcePack.Store(w)
}

// SpawnFuture is the future C6(a) initiates when a participant is handed
// from the handoff queue into the world simulation: it completes once the
// world-entry call has actually placed the participant. Production code
// does not wait on it; §6's INSIDE_TEST flag makes the tick driver await
// it inline instead, the same shape as ResourcePackWait.
type SpawnFuture struct {
	done chan struct{}
	once sync.Once
}

// NewSpawnFuture returns a new, incomplete spawn future.
func NewSpawnFuture() *SpawnFuture {
	return &SpawnFuture{done: make(chan struct{})}
}

// Complete marks world entry as finished. Idempotent.
func (w *SpawnFuture) Complete() { w.once.Do(func() { close(w.done) }) }

// Done returns a channel closed once world entry completes.
func (w *SpawnFuture) Done() <-chan struct{} { return w.done }

// PendingSpawn returns the in-flight spawn future, or nil if world entry
// has not been initiated (or has already completed and been cleared).
func (p *Participant) PendingSpawn() *SpawnFuture {
	return p.pendingSpawn.Load()
}

// SetPendingSpawn installs (or clears, with nil) the spawn future.
func (p *Participant) SetPendingSpawn(w *SpawnFuture) {
	p.pendingSpawn.Store(w)
}

// PendingOptions returns the spawn-target/hardcore pair captured at the
// end of C4, or nil if configuration has not completed yet.
func (p *Participant) PendingOptions() *PendingOptions {
	p.pendingOptsMu.Lock()
	defer p.pendingOptsMu.Unlock()
	return p.pendingOpts
}

// SetPendingOptions stores the spawn-target/hardcore pair (C4 step 12).
func (p *Participant) SetPendingOptions(opts PendingOptions) {
	p.pendingOptsMu.Lock()
	p.pendingOpts = &opts
	p.pendingOptsMu.Unlock()
}

// IsOnline is a convenience passthrough to the underlying connection.
func (p *Participant) IsOnline() bool { return p.conn.IsOnline() }
