// Package middleware exposes HTTP adapters for the access gate.
//
// # Guards
//
//   - [Gate] — full decision handling: placeholder, pass-through, redirect.
//   - [RequireSession] — pass/redirect only, treating an unresolved restore
//     as not authenticated.
//
// Each guard consults a gate.Gate and either admits the request, renders a
// placeholder while restore is pending, or redirects to the login path with
// 303 See Other so history is replaced rather than appended.
//
// # Architecture boundaries
//
// This package translates gate decisions into HTTP semantics. It does NOT
// inspect tokens or talk to the session controller directly.
package middleware
