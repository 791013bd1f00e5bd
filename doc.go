// Package emsgate manages the client-side session for the Enterprise
// Management System admin API: restoring a persisted bearer token and profile
// at startup, adopting new credentials on login, tearing the session down on
// logout, and invalidating it when the server stops accepting the token.
//
// The package is designed around a single [Controller] built once through
// [Builder.Build] and shared by the rest of the application. Controller
// methods are safe to call from multiple goroutines.
//
// # Architecture boundaries
//
// emsgate is the public surface. It exposes [Controller], [Builder], [Config],
// and value types (Profile, Readiness, MetricsSnapshot). Credential
// persistence lives in the credstore sub-package, bearer injection and
// auth-failure classification in gateway, view gating in gate and middleware,
// and the REST client in api.
//
// # What this package must NOT do
//
//   - Issue HTTP requests on its own. The only network call the Controller can
//     make is the optional profile fetch during Restore, and that goes through
//     an injected ProfileFetcher.
//   - Perform navigation directly. Redirects are delegated to an injected
//     Navigator so the view layer stays in charge of its own history.
//   - Re-enter the request path during invalidation: Invalidate touches the
//     store, memory, and the Navigator, nothing else.
//
// # State machine
//
// A Controller starts with readiness StateUnknown and Loading true. The first
// Restore resolves it exactly once to StateAuthenticated or
// StateUnauthenticated; readiness never returns to StateUnknown for the
// lifetime of the Controller. Login moves it to StateAuthenticated, Logout and
// Invalidate to StateUnauthenticated.
package emsgate
