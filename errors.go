package emsgate

import "errors"

var (
	// ErrUnauthorized is returned when the server rejects the current bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned when a login or register attempt is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenRequired is returned by Login when the token argument is empty.
	ErrTokenRequired = errors.New("token required")
	// ErrProfileRequired is returned by Login when the profile argument is nil.
	ErrProfileRequired = errors.New("profile required")
	// ErrAlreadyRestored is returned by Restore after the first call has resolved.
	ErrAlreadyRestored = errors.New("session already restored")
	// ErrControllerNotReady is returned when a Controller method is called on a nil or unbuilt Controller.
	ErrControllerNotReady = errors.New("controller not initialized")
)
