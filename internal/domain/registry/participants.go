// Package registry implements C1 (cached tag packet), C2 (participant
// registry), C5 (handoff queue), and C8 (lookup helpers) from the
// connection-lifecycle core spec. It is grounded on the teacher's
// internal/domain/registry package (Hub/Cell/Connector), generalized from
// a per-user actor/mailbox model to the flat by-connection map plus three
// membership sets spec §3 names directly.
package registry

import (
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"
	"github.com/xrash/smetrics"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

// defaultClosestUsernameCacheSize is used when New is called without
// WithClosestUsernameCacheSize (e.g. directly from tests).
const defaultClosestUsernameCacheSize = 256

// connKey is the map key for by-connection and the membership sets. A
// model.Connection is assumed comparable (pack implementations are always
// pointer-backed), exactly as the teacher keys Hub.cells by uuid.UUID and
// Cell.sessions by connection id.
type connKey = model.Connection

// Provider constructs a participant for a newly accepted connection. It
// is replaceable via SetProvider (§9 "Dynamic participant provider"),
// stored behind an atomic cell so swapping it never races a concurrent create().
type Provider func(conn model.Connection, profile model.Profile) *model.Participant

func defaultProvider(conn model.Connection, profile model.Profile) *model.Participant {
	return model.NewParticipant(conn, profile)
}

// Observer is notified of participant lifecycle transitions that matter
// beyond the registry's own bookkeeping: cluster fan-out and the admin
// WebSocket feed register as observers from their own modules' fx.Invoke
// (internal/cluster/module.go, internal/adminhttp/module.go) rather than
// the registry importing either of them directly.
type Observer interface {
	OnJoin(p *model.Participant)
	OnLeave(p *model.Participant)
}

// Registry is C2: the mapping from connection to participant plus the
// three membership sets (config, play, keep-alive), C5's handoff queue,
// and C1's cached tag packet — the single process-wide registry state
// named in spec §3.
type Registry struct {
	byConnection sync.Map // key: connKey, value: *model.Participant

	configSet    participantSet
	playSet      participantSet
	keepAliveSet participantSet

	handoff *handoffQueue
	tags    *TagCache

	provider atomic.Pointer[Provider]

	observersMu sync.Mutex
	observers   []Observer

	// closestUsernameCache memoizes FindClosestUsername results per
	// lower-cased query string (§4.8), bounded so attacker/user-controlled
	// query strings can't grow it without limit. Purged wholesale on any
	// play-set mutation, since a join or leave can change which
	// participant is the best fuzzy match for a cached query.
	closestUsernameCacheSize int
	closestUsernameCache     *lru.Cache[string, connKey]

	shutdown atomic.Bool
}

// New constructs an empty Registry. tags builds the cached tag packet
// from the Registries collaborator (C1).
func New(tags *TagCache, opts ...Option) *Registry {
	r := &Registry{
		handoff:                  newHandoffQueue(),
		tags:                     tags,
		closestUsernameCacheSize: defaultClosestUsernameCacheSize,
	}
	p := Provider(defaultProvider)
	r.provider.Store(&p)
	for _, opt := range opts {
		opt(r)
	}
	if r.closestUsernameCacheSize > 0 {
		if cache, err := lru.New[string, connKey](r.closestUsernameCacheSize); err == nil {
			r.closestUsernameCache = cache
		}
	}
	return r
}

// SetProvider installs a custom participant factory, or resets to the
// default when passed nil (§6 set_player_provider).
func (r *Registry) SetProvider(p Provider) {
	if p == nil {
		p = defaultProvider
	}
	r.provider.Store(&p)
}

// Create constructs and registers a new participant (§6 create_player).
// Fails with ErrAlreadyRegistered if the connection is already present,
// or ErrManagerShutdown once Shutdown has run (C7).
func (r *Registry) Create(conn model.Connection, profile model.Profile) (*model.Participant, error) {
	if r.shutdown.Load() {
		return nil, model.ErrManagerShutdown
	}
	if _, loaded := r.byConnection.Load(connKey(conn)); loaded {
		return nil, model.ErrAlreadyRegistered
	}
	provider := *r.provider.Load()
	p := provider(conn, profile)

	actual, loaded := r.byConnection.LoadOrStore(connKey(conn), p)
	if loaded {
		_ = actual
		return nil, model.ErrAlreadyRegistered
	}
	return p, nil
}

// Get returns the participant registered for conn, if any.
func (r *Registry) Get(conn model.Connection) (*model.Participant, bool) {
	v, ok := r.byConnection.Load(connKey(conn))
	if !ok {
		return nil, false
	}
	return v.(*model.Participant), true
}

// Remove tears down a participant: removed from by-connection and all
// three sets. Idempotent (§6 remove_player, §8 round-trip property).
// Observers are notified of the leave only when the participant had
// actually been registered, so a double Remove stays silent.
func (r *Registry) Remove(conn model.Connection) {
	key := connKey(conn)
	v, loaded := r.byConnection.LoadAndDelete(key)
	r.configSet.remove(key)
	wasPlaying := r.playSet.has(key)
	r.playSet.remove(key)
	r.keepAliveSet.remove(key)

	if wasPlaying {
		r.invalidateClosestUsernameCache()
	}
	if loaded && wasPlaying {
		r.notifyLeave(v.(*model.Participant))
	}
}

// AddObserver registers a lifecycle observer (cluster fan-out, admin
// feed). Not safe to call concurrently with itself, but safe
// alongside Create/Remove/AddToPlay — observers are only appended
// during app startup.
func (r *Registry) AddObserver(o Observer) {
	r.observersMu.Lock()
	defer r.observersMu.Unlock()
	r.observers = append(r.observers, o)
}

func (r *Registry) notifyJoin(p *model.Participant) {
	r.observersMu.Lock()
	observers := r.observers
	r.observersMu.Unlock()
	for _, o := range observers {
		o.OnJoin(p)
	}
}

func (r *Registry) notifyLeave(p *model.Participant) {
	r.observersMu.Lock()
	observers := r.observers
	r.observersMu.Unlock()
	for _, o := range observers {
		o.OnLeave(p)
	}
}

// AddToConfig adds a participant to the config set (C4 step 1,
// transition_play_to_config).
func (r *Registry) AddToConfig(p *model.Participant) {
	r.configSet.add(connKey(p.Connection()), p)
}

// TransitionPlayToConfig sends an already-playing participant back into
// CONFIG: a StartConfiguration packet followed by config-set membership
// (§6 transition_play_to_config). The caller is expected to follow up
// with DoConfiguration(p, false).
func (r *Registry) TransitionPlayToConfig(p *model.Participant) {
	p.Connection().Send(model.StartConfigurationPacket{})
	r.AddToConfig(p)
	p.SetPhase(model.PhaseConfig)
}

// TransitionConfigToPlay offers a participant that finished DoConfiguration
// to the C5 handoff queue for the tick driver to pick up (§6
// transition_config_to_play).
func (r *Registry) TransitionConfigToPlay(p *model.Participant) {
	r.handoff.Push(p)
}

// RemoveFromConfig removes a participant from the config set (drained on CONFIG→PLAY).
func (r *Registry) RemoveFromConfig(p *model.Participant) {
	r.configSet.remove(connKey(p.Connection()))
}

// AddToPlay adds a participant to the play set (C6a) and notifies
// lifecycle observers of the join.
func (r *Registry) AddToPlay(p *model.Participant) {
	r.playSet.add(connKey(p.Connection()), p)
	r.invalidateClosestUsernameCache()
	r.notifyJoin(p)
}

// invalidateClosestUsernameCache purges every memoized find-closest-username
// result, used whenever play-set membership changes since a join or leave
// can change which participant is the best fuzzy match for a cached query.
func (r *Registry) invalidateClosestUsernameCache() {
	if r.closestUsernameCache != nil {
		r.closestUsernameCache.Purge()
	}
}

// AddToKeepAlive adds a participant to the keep-alive set (C4 step 1, C6a).
func (r *Registry) AddToKeepAlive(p *model.Participant) {
	r.keepAliveSet.add(connKey(p.Connection()), p)
}

// RemoveFromKeepAlive removes a participant from the keep-alive set (C4 step 11).
func (r *Registry) RemoveFromKeepAlive(p *model.Participant) {
	r.keepAliveSet.remove(connKey(p.Connection()))
}

// InConfigSet reports membership, used by invariant checks and C6c.
func (r *Registry) InConfigSet(p *model.Participant) bool {
	return r.configSet.has(connKey(p.Connection()))
}

// InPlaySet reports membership, used by invariant checks.
func (r *Registry) InPlaySet(p *model.Participant) bool {
	return r.playSet.has(connKey(p.Connection()))
}

// InKeepAliveSet reports membership, used by invariant checks.
func (r *Registry) InKeepAliveSet(p *model.Participant) bool {
	return r.keepAliveSet.has(connKey(p.Connection()))
}

// ForEachConfig visits every config-set member at the start of iteration (C6c).
func (r *Registry) ForEachConfig(fn func(p *model.Participant)) {
	r.configSet.forEach(func(_ connKey, v any) { fn(v.(*model.Participant)) })
}

// ForEachPlay visits every play-set member at the start of iteration.
func (r *Registry) ForEachPlay(fn func(p *model.Participant)) {
	r.playSet.forEach(func(_ connKey, v any) { fn(v.(*model.Participant)) })
}

// ForEachKeepAlive visits every keep-alive-set member at the start of iteration (C6b).
func (r *Registry) ForEachKeepAlive(fn func(p *model.Participant)) {
	r.keepAliveSet.forEach(func(_ connKey, v any) { fn(v.(*model.Participant)) })
}

// OnlinePlayerCount implements get_online_player_count (§8 invariant 4: equals |play-set|).
func (r *Registry) OnlinePlayerCount() int { return r.playSet.len() }

// OnlinePlayers implements get_online_players, returning a snapshot slice.
func (r *Registry) OnlinePlayers() []*model.Participant {
	out := make([]*model.Participant, 0, r.playSet.len())
	r.ForEachPlay(func(p *model.Participant) { out = append(out, p) })
	return out
}

// ConfigPlayers implements get_config_players.
func (r *Registry) ConfigPlayers() []*model.Participant {
	out := make([]*model.Participant, 0, r.configSet.len())
	r.ForEachConfig(func(p *model.Participant) { out = append(out, p) })
	return out
}

// Handoff returns the C5 handoff queue backing transition_config_to_play/tick.
func (r *Registry) Handoff() *handoffQueue { return r.handoff }

// Tags returns the C1 cached tag packet.
func (r *Registry) Tags() *TagCache { return r.tags }

// SendRegistryTags sends the cached tag packet to a single participant
// (§6 send_registry_tags), used outside the configuration routine proper
// e.g. to re-push tags after an invalidate.
func (r *Registry) SendRegistryTags(p *model.Participant) error {
	tags, err := r.tags.Get()
	if err != nil {
		return err
	}
	p.Connection().Send(model.TagPacketWire{Data: tags})
	return nil
}

// InvalidateTags discards the cached tag packet (§6 invalidate_tags); the
// next SendRegistryTags or DoConfiguration rebuilds it.
func (r *Registry) InvalidateTags() {
	r.tags.Invalidate()
}

// MarkShutdown rejects further Create calls (C7).
func (r *Registry) MarkShutdown() { r.shutdown.Store(true) }

// ClearAll empties by-connection and all three sets (C7).
func (r *Registry) ClearAll() {
	r.byConnection.Range(func(k, _ any) bool {
		r.byConnection.Delete(k)
		return true
	})
	r.configSet = participantSet{}
	r.playSet = participantSet{}
	r.keepAliveSet = participantSet{}
}

// AllConnections returns every registered connection, a snapshot used by
// shutdown (C7) to kick everyone still present in by-connection.
func (r *Registry) AllConnections() []model.Connection {
	var out []model.Connection
	r.byConnection.Range(func(k, _ any) bool {
		out = append(out, k.(connKey))
		return true
	})
	return out
}

// --- C8: lookup helpers ---

// FindByUUID implements get_online_player_by_uuid: a linear scan of the
// play set, matching §4.2.
func (r *Registry) FindByUUID(id uuid.UUID) (*model.Participant, bool) {
	var found *model.Participant
	r.playSet.forEach(func(_ connKey, v any) {
		if found != nil {
			return
		}
		p := v.(*model.Participant)
		if p.Profile().UUID == id {
			found = p
		}
	})
	return found, found != nil
}

// FindByExactUsername implements the exact, case-insensitive lookup used
// both directly and as the first step of find_online_player (§4.2).
func (r *Registry) FindByExactUsername(username string) (*model.Participant, bool) {
	lower := strings.ToLower(username)
	var found *model.Participant
	r.playSet.forEach(func(_ connKey, v any) {
		if found != nil {
			return
		}
		p := v.(*model.Participant)
		if strings.ToLower(p.Profile().Username) == lower {
			found = p
		}
	})
	return found, found != nil
}

// FindClosestUsername implements find_online_player (§4.2, §8): an exact
// case-insensitive match wins outright; otherwise the play-set
// participant maximising Jaro–Winkler similarity to the lower-cased
// query, ties broken by iteration order, nothing returned when the play
// set is empty or every similarity is ≤ 0. Fuzzy results are memoized per
// lower-cased query string in a bounded LRU (§4.8), so a repeated query
// skips the scan while a flood of distinct, caller-controlled query
// strings can't grow the cache without limit; the cache is invalidated
// wholesale on any play-set join/leave.
func (r *Registry) FindClosestUsername(query string) (*model.Participant, bool) {
	if p, ok := r.FindByExactUsername(query); ok {
		return p, true
	}

	lower := strings.ToLower(query)

	if r.closestUsernameCache != nil {
		if key, ok := r.closestUsernameCache.Get(lower); ok {
			if v, loaded := r.byConnection.Load(key); loaded && r.playSet.has(key) {
				return v.(*model.Participant), true
			}
			r.closestUsernameCache.Remove(lower)
		}
	}

	var best *model.Participant
	var bestScore float64
	r.playSet.forEach(func(_ connKey, v any) {
		p := v.(*model.Participant)
		score := smetrics.JaroWinkler(strings.ToLower(p.Profile().Username), lower, 0.7, 4)
		if best == nil || score > bestScore {
			best = p
			bestScore = score
		}
	})
	if best == nil || bestScore <= 0 {
		return nil, false
	}
	if r.closestUsernameCache != nil {
		r.closestUsernameCache.Add(lower, connKey(best.Connection()))
	}
	return best, true
}
