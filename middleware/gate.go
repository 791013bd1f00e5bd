package middleware

import (
	"net/http"

	"github.com/emstack/emsgate/gate"
)

// DefaultLoginPath is where unauthenticated requests are redirected.
const DefaultLoginPath = "/login"

// DefaultPlaceholder is the body served while restore is pending.
const DefaultPlaceholder = "Cargando...\n"

// Gate returns middleware guarding next with g. While the session is still
// restoring it answers 503 with a Retry-After of one second and a
// placeholder body instead of redirecting, so a slow restore never bounces
// an authenticated operator to login.
func Gate(g *gate.Gate, loginPath string) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch g.Decide() {
			case gate.Allow:
				next.ServeHTTP(w, r)
			case gate.Pending:
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(DefaultPlaceholder))
			default:
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
			}
		})
	}
}

// RequireSession is the strict variant: anything short of an authenticated
// session redirects, including a still-pending restore. Use it for routes
// where waiting is worse than re-authenticating.
func RequireSession(g *gate.Gate, loginPath string) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.Decide() == gate.Allow {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
		})
	}
}
