package gate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSource struct {
	mu            sync.Mutex
	loading       bool
	authenticated bool
	ready         chan struct{}
}

func newFakeSource(loading, authenticated bool) *fakeSource {
	s := &fakeSource{
		loading:       loading,
		authenticated: authenticated,
		ready:         make(chan struct{}),
	}
	if !loading {
		close(s.ready)
	}
	return s
}

func (s *fakeSource) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *fakeSource) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *fakeSource) Ready() <-chan struct{} {
	return s.ready
}

func (s *fakeSource) resolve(authenticated bool) {
	s.mu.Lock()
	s.loading = false
	s.authenticated = authenticated
	s.mu.Unlock()
	close(s.ready)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		loading       bool
		authenticated bool
		want          Decision
	}{
		{"loading yields pending", true, false, Pending},
		{"authenticated yields allow", false, true, Allow},
		{"anonymous yields redirect", false, false, Redirect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(newFakeSource(tt.loading, tt.authenticated))
			if got := g.Decide(); got != tt.want {
				t.Fatalf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecideIsReentrant(t *testing.T) {
	src := newFakeSource(false, false)
	g := New(src)

	if got := g.Decide(); got != Redirect {
		t.Fatalf("before login: %v, want Redirect", got)
	}

	src.mu.Lock()
	src.authenticated = true
	src.mu.Unlock()

	if got := g.Decide(); got != Allow {
		t.Fatalf("after login: %v, want Allow", got)
	}
}

func TestWaitBlocksUntilResolved(t *testing.T) {
	src := newFakeSource(true, false)
	g := New(src)

	done := make(chan Decision, 1)
	go func() {
		d, err := g.Wait(context.Background())
		if err != nil {
			t.Errorf("wait: %v", err)
		}
		done <- d
	}()

	select {
	case d := <-done:
		t.Fatalf("Wait returned %v before resolution", d)
	case <-time.After(20 * time.Millisecond):
	}

	src.resolve(true)

	select {
	case d := <-done:
		if d != Allow {
			t.Fatalf("Wait = %v, want Allow", d)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after resolution")
	}
}

func TestWaitReturnsRedirectForAnonymous(t *testing.T) {
	g := New(newFakeSource(false, false))

	d, err := g.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if d != Redirect {
		t.Fatalf("Wait = %v, want Redirect", d)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	g := New(newFakeSource(true, false))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	d, err := g.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if d != Pending {
		t.Fatalf("decision = %v, want Pending on cancelled wait", d)
	}
}

func TestDecisionString(t *testing.T) {
	if Pending.String() != "pending" || Allow.String() != "allow" || Redirect.String() != "redirect" {
		t.Fatal("unexpected decision names")
	}
	if Decision(99).String() != "unknown" {
		t.Fatal("unexpected fallback name")
	}
}
