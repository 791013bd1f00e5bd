package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/emstack/emsgate"
	"github.com/emstack/emsgate/api"
	"github.com/emstack/emsgate/credstore"
	"github.com/emstack/emsgate/gateway"
)

const (
	validToken = "valid-token"
	stalePass  = "wrong"
	goodPass   = "correct-horse"
)

var backendUser = emsgate.Profile{
	ID:        1,
	FirstName: "Ana",
	LastName:  "Ruiz",
	Email:     "ana@example.com",
	Role:      emsgate.RoleAdmin,
}

// stubBackend is a minimal EMS API: one account, one token, one collection.
// Tokens other than validToken are rejected with 401; flipping brokenToken
// makes /pedidos answer the 500-with-marker failure mode instead.
type stubBackend struct {
	mu          sync.Mutex
	brokenToken bool

	loginHeaders []http.Header
	meCalls      atomic.Int64

	srv *httptest.Server
}

func newStubBackend(t *testing.T) *stubBackend {
	t.Helper()

	b := &stubBackend{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.loginHeaders = append(b.loginHeaders, r.Header.Clone())
		b.mu.Unlock()

		var creds api.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != goodPass {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "bad credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": validToken, "user": backendUser})
	})

	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		b.meCalls.Add(1)
		if !b.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": backendUser})
	})

	mux.HandleFunc("GET /api/pedidos", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		broken := b.brokenToken
		b.mu.Unlock()

		if broken {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Usuario no encontrado"})
			return
		}
		if !b.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": []api.Order{}})
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *stubBackend) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+validToken
}

func (b *stubBackend) baseURL() string {
	return b.srv.URL + "/api"
}

func (b *stubBackend) breakToken() {
	b.mu.Lock()
	b.brokenToken = true
	b.mu.Unlock()
}

func (b *stubBackend) lastLoginHeader() http.Header {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.loginHeaders) == 0 {
		return nil
	}
	return b.loginHeaders[len(b.loginHeaders)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// stack is one fully wired client process: store, controller, transport,
// API client, navigation counter.
type stack struct {
	controller *emsgate.Controller
	client     *api.Client
	navCalls   *atomic.Int64
}

type lazyFetcher struct {
	svc *api.AuthService
}

func (f *lazyFetcher) FetchProfile(ctx context.Context) (*emsgate.Profile, error) {
	return f.svc.FetchProfile(ctx)
}

func newStack(t *testing.T, backend *stubBackend, store credstore.Store) *stack {
	t.Helper()

	navCalls := &atomic.Int64{}
	fetcher := &lazyFetcher{}

	controller, err := emsgate.New().
		WithStore(store).
		WithProfileFetcher(fetcher).
		WithNavigator(emsgate.NavigatorFunc(func(context.Context) {
			navCalls.Add(1)
		})).
		Build()
	if err != nil {
		t.Fatalf("build controller: %v", err)
	}
	t.Cleanup(controller.Close)

	transport := gateway.NewTransport(controller,
		gateway.WithInvalidator(controller),
		gateway.WithMetrics(controller.Metrics()),
	)
	client := api.NewClient(backend.baseURL(), transport.Client())
	fetcher.svc = client.Auth()

	return &stack{
		controller: controller,
		client:     client,
		navCalls:   navCalls,
	}
}

// login signs the stack in through the real auth endpoint.
func (s *stack) login(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	session, err := s.client.Auth().Login(ctx, api.Credentials{
		Email:    backendUser.Email,
		Password: goodPass,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.controller.Login(ctx, session.Token, session.User); err != nil {
		t.Fatalf("adopt session: %v", err)
	}
}
