package emsgate

import (
	"context"
	"strconv"
)

// Readiness is the tri-state resolution of the session at startup.
type Readiness uint8

const (
	// StateUnknown means Restore has not resolved yet.
	StateUnknown Readiness = iota
	// StateAuthenticated means a token and profile were adopted.
	StateAuthenticated
	// StateUnauthenticated means the session resolved without credentials.
	StateUnauthenticated
)

// String returns the readiness name used in audit metadata.
func (r Readiness) String() string {
	switch r {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Role values as reported by the EMS API. Roles are display classification
// only; the gate distinguishes authenticated from anonymous, nothing finer.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// DisplayRole maps an API role value to its human label.
func DisplayRole(role string) string {
	if role == RoleAdmin {
		return "Administrator"
	}
	return "User"
}

// Profile is the cached user record attached to a session. Field names follow
// the EMS API payloads.
type Profile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// DisplayName returns the profile's human-readable name, falling back to the
// email address when the name fields are empty.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.Email
	}
}

// IDString returns the profile ID as a decimal string, or "" for a nil or
// unidentified profile. Used for audit event attribution.
func (p *Profile) IDString() string {
	if p == nil || p.ID == 0 {
		return ""
	}
	return strconv.FormatInt(p.ID, 10)
}

// ProfileFetcher revalidates a restored token against the API. The bearer
// token is attached by the transport, so implementations only need the
// context. api.Client satisfies this interface.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context) (*Profile, error)
}

// Navigator receives the "go to login" command issued on logout or session
// invalidation. Implementations belong to the view layer; the Controller only
// decides when navigation happens, never how.
type Navigator interface {
	ToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(ctx context.Context)

// ToLogin calls the wrapped function.
func (f NavigatorFunc) ToLogin(ctx context.Context) { f(ctx) }

// NoOpNavigator discards navigation commands. It is the default when no
// Navigator is configured.
type NoOpNavigator struct{}

// ToLogin does nothing.
func (NoOpNavigator) ToLogin(context.Context) {}
