// Package gateway provides the authenticated HTTP transport for the EMS API.
//
// Transport is an http.RoundTripper that injects the current bearer token
// into outgoing requests and watches responses for authentication failure.
// When the server rejects a credential the transport reports it to the
// session layer, which invalidates the session and navigates to login at
// most once; the transport never performs navigation itself.
//
// Requests that must not carry a credential (login, register) opt out with
// WithAnonymous. Responses produced while an anonymous request is in flight
// never trigger invalidation, so a failed login cannot evict a live session.
package gateway
