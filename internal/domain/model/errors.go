package model

import "errors"

// Error taxonomy (spec §7). Transient client faults and programming
// errors are both plain sentinel errors here; callers distinguish them
// with errors.Is rather than type switches, matching the wrapped-%w style
// used throughout the teacher codebase's service layer.
var (
	// ErrAlreadyRegistered is returned by create() when the connection is
	// already present in by-connection (programming error — fatal to the
	// calling task).
	ErrAlreadyRegistered = errors.New("registry: connection already registered")

	// ErrPreLoginCancelled means the connection went offline during or
	// after the PreLogin event dispatch (C3 step 3).
	ErrPreLoginCancelled = errors.New("login: connection went offline during pre-login")

	// ErrLoginPluginReplyFailed means one or more login-plugin-message
	// replies timed out or errored (C3 step 5).
	ErrLoginPluginReplyFailed = errors.New("login: login plugin message reply failed")

	// ErrSpawnMissing means the Configuration event handler left
	// SpawnTarget nil (C4 step 7) — a programming error, fatal to the task.
	ErrSpawnMissing = errors.New("configuration: spawn target was not set")

	// ErrKnownPacksTimeout means the known-packs future did not resolve
	// within the configured deadline (C4 step 9a).
	ErrKnownPacksTimeout = errors.New("configuration: known packs response timed out")

	// ErrKeepAliveTimeout means the client went silent past KEEP_ALIVE_KICK (C6b).
	ErrKeepAliveTimeout = errors.New("keepalive: client exceeded kick threshold")

	// ErrManagerShutdown is returned by create() once shutdown() has run (C7).
	ErrManagerShutdown = errors.New("registry: manager is shut down")
)
