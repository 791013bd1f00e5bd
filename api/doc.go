// Package api is the typed client for the EMS backend.
//
// All calls go through a shared Client that handles the response envelope:
// list and entity endpoints wrap their payload as {"data": ...} while a few
// older ones return the payload bare, so decoding prefers the data field and
// falls back to the whole body. Auth endpoints live on AuthService; each
// domain collection gets a Resource handle with uniform CRUD methods.
//
// The Client does not authenticate requests itself. Pair it with a
// gateway.Transport so tokens and failure classification stay in one place.
package api
