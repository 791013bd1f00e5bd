// Package jwt inspects bearer tokens on the client side.
//
// The EMS API issues JWTs but the client treats them as opaque credentials;
// this package only decodes the registered claims without verifying the
// signature, so a restore can skip a profile fetch that is guaranteed to be
// rejected. Inspection is advisory: the server remains the sole authority on
// token validity, and a token that fails to parse is simply not inspectable.
package jwt
