package registry

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithProvider installs a custom participant factory (§9 "Dynamic
// participant provider") from the moment the registry is constructed,
// equivalent to calling SetProvider immediately afterwards.
func WithProvider(p Provider) Option {
	return func(r *Registry) {
		r.SetProvider(p)
	}
}

// WithClosestUsernameCacheSize bounds the LRU that memoizes recent
// find-closest-username results per query string (§4.8: query strings are
// attacker/user controlled and must not grow unbounded). n <= 0 disables
// the cache entirely.
func WithClosestUsernameCacheSize(n int) Option {
	return func(r *Registry) {
		r.closestUsernameCacheSize = n
	}
}
