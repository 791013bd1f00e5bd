package gateway

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/emstack/emsgate"
)

// TokenSource supplies the current bearer token. An empty string means no
// session is active and the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Invalidator receives auth failure reports. Implementations must be
// idempotent; the transport reports every classified failure it sees.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Option configures a Transport.
type Option func(*Transport)

// WithInvalidator wires the session layer that is told about auth failures.
func WithInvalidator(inv Invalidator) Option {
	return func(t *Transport) { t.invalidator = inv }
}

// WithBase sets the underlying RoundTripper. Defaults to
// http.DefaultTransport.
func WithBase(base http.RoundTripper) Option {
	return func(t *Transport) { t.base = base }
}

// WithMarkers replaces DefaultMarkers for 500-body classification. An empty
// slice disables the heuristic entirely; 401 handling is unaffected.
func WithMarkers(markers []string) Option {
	return func(t *Transport) { t.classify.markers = markers }
}

// WithMetrics attaches a metrics registry to the transport.
func WithMetrics(m *emsgate.Metrics) Option {
	return func(t *Transport) { t.metrics = m }
}

// Transport is an http.RoundTripper that authenticates outgoing requests
// and classifies auth failures in responses.
type Transport struct {
	base        http.RoundTripper
	source      TokenSource
	invalidator Invalidator
	classify    classifier
	metrics     *emsgate.Metrics
}

// NewTransport builds a Transport reading tokens from source.
func NewTransport(source TokenSource, opts ...Option) *Transport {
	t := &Transport{
		base:     http.DefaultTransport,
		source:   source,
		classify: classifier{markers: DefaultMarkers},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Client returns an http.Client using the transport.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// headers are added, per the RoundTripper contract.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	anonymous := IsAnonymous(ctx)

	out := req.Clone(ctx)
	if out.Header.Get("X-Request-Id") == "" {
		id, ok := RequestIDFrom(ctx)
		if !ok {
			id = uuid.NewString()
		}
		out.Header.Set("X-Request-Id", id)
	}

	token := ""
	if !anonymous && t.source != nil {
		token = t.source.Token()
	}
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
		t.metricInc(emsgate.MetricRequestAuthorized)
	} else {
		out.Header.Del("Authorization")
		t.metricInc(emsgate.MetricRequestAnonymous)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if !anonymous && token != "" && t.classify.authFailure(resp) {
		t.metricInc(emsgate.MetricAuthFailureDetected)
		if resp.StatusCode == http.StatusInternalServerError {
			t.metricInc(emsgate.MetricHeuristicAuthFailure)
		}
		if t.invalidator != nil {
			t.invalidator.Invalidate(ctx)
		}
	}
	return resp, nil
}

func (t *Transport) metricInc(id emsgate.MetricID) {
	if t.metrics != nil {
		t.metrics.Inc(id)
	}
}
