// Package credstore persists the session credentials — the opaque bearer
// token and the serialized profile — across process restarts.
//
// The store is deliberately dumb: two keys, whole-value replacement, no
// validation of what it holds. The Controller is its only writer; the
// gateway may issue a clear on invalidation. Three backends are provided:
// FileStore for a single operator machine, MemStore for tests and ephemeral
// sessions, and RedisStore for shared-host deployments where several admin
// processes serve one operator session.
//
// Backend trouble maps to ErrUnavailable; callers are expected to degrade to
// "no session" rather than fail.
package credstore
