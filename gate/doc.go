// Package gate decides whether a protected surface may render.
//
// A Gate consults the session state and yields one of three decisions:
// Pending while restore is still resolving, Allow for an authenticated
// session, Redirect otherwise. Callers that can block use Wait to get a
// final decision; callers that cannot poll Decide and show a placeholder
// on Pending. The gate is re-entrant: a later login produces Allow from
// the same Gate without rebuilding anything.
package gate
