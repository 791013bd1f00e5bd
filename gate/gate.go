package gate

import "context"

// Decision is the outcome of an access check.
type Decision uint8

const (
	// Pending means session restore has not resolved yet. Show a
	// placeholder and check again; never redirect on Pending.
	Pending Decision = iota

	// Allow admits the request to the protected surface.
	Allow

	// Redirect sends the caller to the login surface.
	Redirect
)

// String returns the decision name for logs.
func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// StateSource is the slice of session state the gate needs. *emsgate.Controller
// satisfies it.
type StateSource interface {
	Loading() bool
	IsAuthenticated() bool
	Ready() <-chan struct{}
}

// Gate guards protected surfaces with the current session state.
type Gate struct {
	source StateSource
}

// New returns a Gate over source.
func New(source StateSource) *Gate {
	return &Gate{source: source}
}

// Decide returns the current decision without blocking.
func (g *Gate) Decide() Decision {
	if g.source.Loading() {
		return Pending
	}
	if g.source.IsAuthenticated() {
		return Allow
	}
	return Redirect
}

// Wait blocks until restore has resolved, then returns Allow or Redirect.
// It returns early with ctx.Err() if the context is done first.
func (g *Gate) Wait(ctx context.Context) (Decision, error) {
	select {
	case <-g.source.Ready():
	case <-ctx.Done():
		return Pending, ctx.Err()
	}
	if g.source.IsAuthenticated() {
		return Allow, nil
	}
	return Redirect, nil
}
