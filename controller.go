package emsgate

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/emstack/emsgate/credstore"
	"github.com/emstack/emsgate/jwt"
)

// Controller owns the client-side session: the bearer token, the cached
// profile, and the tri-state readiness resolved by the first Restore. It is
// the single writer of the credential store; the gateway only reads the token
// and calls Invalidate.
type Controller struct {
	config  Config
	store   credstore.Store
	fetcher ProfileFetcher
	nav     Navigator
	audit   *auditDispatcher
	metrics *Metrics

	mu       sync.Mutex
	token    string
	user     *Profile
	state    Readiness
	loading  bool
	restored bool

	ready     chan struct{}
	readyOnce sync.Once

	// navigated guards the invalidation storm case: many concurrent requests
	// can observe a 401 at once, navigation must fire once per epoch.
	navigated atomic.Bool
}

// Close flushes and stops the audit dispatcher.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped under backpressure.
func (c *Controller) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

// Metrics returns the controller's metrics registry, so the transport and
// exporters can record into the same set of counters. Nil when metrics are
// disabled.
func (c *Controller) Metrics() *Metrics {
	if c == nil {
		return nil
	}
	return c.metrics
}

// MetricsSnapshot returns a point-in-time copy of the session metrics.
func (c *Controller) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

func (c *Controller) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

// Restore resolves the persisted session. It runs exactly once per
// Controller: no token resolves unauthenticated; a token with a cached
// profile is adopted without a network call; a token without a profile is
// revalidated through the ProfileFetcher when configured. Whatever branch is
// taken, Loading ends false and Ready is closed. Subsequent calls return
// ErrAlreadyRestored.
func (c *Controller) Restore(ctx context.Context) error {
	if c == nil {
		return ErrControllerNotReady
	}

	c.mu.Lock()
	if c.restored {
		c.mu.Unlock()
		return ErrAlreadyRestored
	}
	c.restored = true
	c.mu.Unlock()

	if c.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { c.metrics.Observe(MetricRestoreLatency, time.Since(start)) }()
	}

	rec, err := c.store.Load(ctx)
	if err != nil {
		// Storage trouble degrades to "no session", never to a failed start.
		c.metricInc(MetricStoreUnavailable)
		c.emitAudit(ctx, auditEventStoreDegraded, false, "", err, nil)
		c.resolveUnauthenticated(ctx, "store_unavailable")
		return nil
	}

	if rec.Token == "" {
		c.resolveUnauthenticated(ctx, "no_token")
		return nil
	}

	if cached := decodeProfile(rec.User); cached != nil {
		c.adopt(rec.Token, cached)
		c.resolve(StateAuthenticated)
		c.metricInc(MetricRestoreFromCache)
		c.emitAudit(ctx, auditEventSessionRestored, true, cached.IDString(), nil, func() map[string]string {
			return map[string]string{"outcome": "cached_profile"}
		})
		return nil
	}

	if c.config.Session.LocalExpiryCheck {
		if claims, inspectErr := jwt.Inspect(rec.Token); inspectErr == nil &&
			claims.Expired(time.Now(), c.config.Session.ExpirySkew) {
			c.clearStore(ctx)
			c.metricInc(MetricRestoreRejectedToken)
			c.emitAudit(ctx, auditEventSessionRestored, false, "", ErrUnauthorized, func() map[string]string {
				return map[string]string{"outcome": "token_expired_locally"}
			})
			c.resolveUnauthenticated(ctx, "token_expired")
			return nil
		}
	}

	if !c.config.Session.RefreshProfileOnRestore || c.fetcher == nil {
		// A token alone cannot authenticate a session. The record stays
		// persisted so a configuration with a fetcher can still adopt it.
		c.emitAudit(ctx, auditEventSessionRestored, false, "", nil, func() map[string]string {
			return map[string]string{"outcome": "profile_unavailable"}
		})
		c.resolveUnauthenticated(ctx, "profile_unavailable")
		return nil
	}

	// Adopt the token in memory first so the transport attaches it to the
	// profile fetch.
	c.adopt(rec.Token, nil)

	profile, err := c.fetcher.FetchProfile(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.clearStore(ctx)
			c.clearMemory()
			c.metricInc(MetricRestoreRejectedToken)
			c.emitAudit(ctx, auditEventSessionRestored, false, "", err, func() map[string]string {
				return map[string]string{"outcome": "token_rejected"}
			})
		} else {
			// Transport failure: the persisted record survives, only this
			// application run resolves unauthenticated.
			c.clearMemory()
			c.emitAudit(ctx, auditEventSessionRestored, false, "", err, func() map[string]string {
				return map[string]string{"outcome": "profile_fetch_failed"}
			})
		}
		c.resolveUnauthenticated(ctx, "")
		return nil
	}

	if data, marshalErr := json.Marshal(profile); marshalErr == nil {
		if saveErr := c.store.Save(ctx, credstore.Record{Token: rec.Token, User: data}); saveErr != nil {
			c.metricInc(MetricStoreUnavailable)
		}
	}

	c.adopt(rec.Token, profile)
	c.resolve(StateAuthenticated)
	c.metricInc(MetricRestoreProfileFetched)
	c.emitAudit(ctx, auditEventSessionRestored, true, profile.IDString(), nil, func() map[string]string {
		return map[string]string{"outcome": "profile_fetched"}
	})
	return nil
}

// Login persists the credentials and adopts them in memory. Navigation after
// a successful login belongs to the caller.
func (c *Controller) Login(ctx context.Context, token string, user *Profile) error {
	if c == nil {
		return ErrControllerNotReady
	}
	if token == "" {
		return ErrTokenRequired
	}
	if user == nil {
		return ErrProfileRequired
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if saveErr := c.store.Save(ctx, credstore.Record{Token: token, User: data}); saveErr != nil {
		// The in-memory session still works; it just won't survive a restart.
		c.metricInc(MetricStoreUnavailable)
		c.emitAudit(ctx, auditEventStoreDegraded, false, user.IDString(), saveErr, nil)
	}

	adopted := *user
	c.mu.Lock()
	c.token = token
	c.user = &adopted
	c.state = StateAuthenticated
	c.loading = false
	c.restored = true
	c.mu.Unlock()
	c.signalReady()

	// A fresh session opens a fresh invalidation epoch.
	c.navigated.Store(false)

	c.metricInc(MetricLoginSuccess)
	c.emitAudit(ctx, auditEventLoginSuccess, true, user.IDString(), nil, nil)
	return nil
}

// Logout clears the session and navigates to the login entry point.
func (c *Controller) Logout(ctx context.Context) error {
	return c.logout(ctx, true)
}

// LogoutLocal clears the session without navigating; the caller owns the
// follow-up navigation, if any.
func (c *Controller) LogoutLocal(ctx context.Context) error {
	return c.logout(ctx, false)
}

func (c *Controller) logout(ctx context.Context, navigate bool) error {
	if c == nil {
		return ErrControllerNotReady
	}

	userID := c.currentUserID()
	c.clearStore(ctx)
	c.clearMemory()

	c.metricInc(MetricLogout)
	c.emitAudit(ctx, auditEventLogout, true, userID, nil, func() map[string]string {
		return map[string]string{"navigate": boolString(navigate)}
	})

	if navigate {
		c.nav.ToLogin(ctx)
		c.metricInc(MetricNavigationIssued)
	}
	return nil
}

// Invalidate discards the session after the server rejected its token. The
// gateway calls it; ordering is fixed: persisted record first, in-memory
// credentials second, navigation last, so an in-flight request can never
// re-read a half-cleared credential. Navigation fires at most once per
// epoch, and not at all while the initial restore is still resolving (the
// access gate redirects in that case).
func (c *Controller) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	userID := c.currentUserID()
	c.clearStore(ctx)

	c.mu.Lock()
	c.token = ""
	c.user = nil
	if c.restored && !c.loading {
		c.state = StateUnauthenticated
	}
	loading := c.loading
	c.mu.Unlock()

	c.metricInc(MetricSessionInvalidated)
	c.emitAudit(ctx, auditEventSessionInvalidated, true, userID, ErrUnauthorized, nil)

	if !loading && c.navigated.CompareAndSwap(false, true) {
		c.nav.ToLogin(ctx)
		c.metricInc(MetricNavigationIssued)
	}
}

// Token returns the current bearer token, or "" when anonymous. The gateway
// reads it at send time; requests already in flight keep the token they were
// sent with.
func (c *Controller) Token() string {
	if c == nil {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// CurrentUser returns a copy of the session profile, or nil when anonymous.
func (c *Controller) CurrentUser() *Profile {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	user := *c.user
	return &user
}

// Loading reports whether the initial restore is still resolving.
func (c *Controller) Loading() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// IsAuthenticated reports whether both a token and a profile are present.
func (c *Controller) IsAuthenticated() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != "" && c.user != nil
}

// State returns the session readiness tri-state.
func (c *Controller) State() Readiness {
	if c == nil {
		return StateUnknown
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ready returns a channel closed when the first Restore (or an earlier
// Login) resolves the session.
func (c *Controller) Ready() <-chan struct{} {
	return c.ready
}

func (c *Controller) adopt(token string, user *Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	if user == nil {
		c.user = nil
		return
	}
	adopted := *user
	c.user = &adopted
}

func (c *Controller) clearMemory() {
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()
}

func (c *Controller) clearStore(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		// Clear failures degrade silently; the in-memory clear still happens.
		c.metricInc(MetricStoreUnavailable)
	}
}

func (c *Controller) resolve(state Readiness) {
	c.mu.Lock()
	c.state = state
	c.loading = false
	c.mu.Unlock()
	c.signalReady()
}

func (c *Controller) resolveUnauthenticated(ctx context.Context, outcome string) {
	c.resolve(StateUnauthenticated)
	c.metricInc(MetricRestoreUnauthenticated)
	if outcome == "no_token" {
		c.emitAudit(ctx, auditEventSessionRestored, true, "", nil, func() map[string]string {
			return map[string]string{"outcome": outcome}
		})
	}
}

func (c *Controller) signalReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

func (c *Controller) currentUserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user.IDString()
}

func (c *Controller) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	failure error,
	metaFn func() map[string]string,
) {
	if c == nil || c.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		UserID:    userID,
		Success:   success,
	}
	if failure != nil {
		event.Error = failure.Error()
	}
	if metaFn != nil {
		event.Metadata = metaFn()
	}

	c.audit.Emit(ctx, event)
}

func decodeProfile(data []byte) *Profile {
	if len(data) == 0 {
		return nil
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	return &p
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
