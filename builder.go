package emsgate

import (
	"errors"

	"github.com/emstack/emsgate/credstore"
)

// Builder assembles a [Controller]. Construction is allocation-only; no I/O
// happens until the first Restore.
type Builder struct {
	config Config
	store  credstore.Store

	fetcher   ProfileFetcher
	nav       Navigator
	auditSink AuditSink

	built bool
}

// New creates a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore sets the credential store. Required.
func (b *Builder) WithStore(store credstore.Store) *Builder {
	b.store = store
	return b
}

// WithProfileFetcher sets the optional profile revalidation dependency used
// by Restore when a token is persisted without a cached profile.
func (b *Builder) WithProfileFetcher(f ProfileFetcher) *Builder {
	b.fetcher = f
	return b
}

// WithNavigator sets the navigation sink for logout and invalidation.
// Defaults to [NoOpNavigator].
func (b *Builder) WithNavigator(nav Navigator) *Builder {
	b.nav = nav
	return b
}

// WithAuditSink sets the audit sink and enables auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithProfileRefresh toggles profile revalidation during Restore for tokens
// persisted without a cached profile.
func (b *Builder) WithProfileRefresh(enabled bool) *Builder {
	b.config.Session.RefreshProfileOnRestore = enabled
	return b
}

// WithMetricsEnabled toggles the in-process metrics set.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles restore latency histograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the Controller. A Builder
// can be used once.
func (b *Builder) Build() (*Controller, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.store == nil {
		return nil, errors.New("credential store required")
	}
	if cfg.Session.RefreshProfileOnRestore && b.fetcher == nil {
		// Not fatal: a token without a cached profile just resolves
		// unauthenticated. The flag only matters when a fetcher exists.
		cfg.Session.RefreshProfileOnRestore = false
	}

	nav := b.nav
	if nav == nil {
		nav = NoOpNavigator{}
	}

	controller := &Controller{
		config:  cfg,
		store:   b.store,
		fetcher: b.fetcher,
		nav:     nav,
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
		state:   StateUnknown,
		loading: true,
		ready:   make(chan struct{}),
	}

	b.built = true

	return controller, nil
}
