package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/emstack/emsgate"
	"github.com/emstack/emsgate/api"
	"github.com/emstack/emsgate/credstore"
	"github.com/emstack/emsgate/gateway"
)

// app wires the session controller, transport, and API client for one
// invocation.
type app struct {
	cfg        cliConfig
	controller *emsgate.Controller
	client     *api.Client
}

// lazyFetcher breaks the construction cycle: the controller needs a profile
// fetcher at build time, but the auth service needs a client whose transport
// reads tokens from the controller. The service is assigned before any call.
type lazyFetcher struct {
	svc *api.AuthService
}

func (f *lazyFetcher) FetchProfile(ctx context.Context) (*emsgate.Profile, error) {
	return f.svc.FetchProfile(ctx)
}

// staticToken authenticates one-off calls made before the controller has
// adopted a session, such as the profile fetch right after login.
type staticToken string

func (t staticToken) Token() string { return string(t) }

func newApp(cfg cliConfig) (*app, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	fetcher := &lazyFetcher{}
	controller, err := emsgate.New().
		WithStore(store).
		WithProfileFetcher(fetcher).
		WithNavigator(emsgate.NavigatorFunc(func(context.Context) {
			fmt.Fprintln(os.Stderr, "session expired; run 'emsadmin login' to sign in again")
		})).
		WithProfileRefresh(cfg.RefreshProfile).
		Build()
	if err != nil {
		return nil, err
	}

	transport := gateway.NewTransport(controller,
		gateway.WithInvalidator(controller),
		gateway.WithMarkers(cfg.Markers),
		gateway.WithMetrics(controller.Metrics()),
	)
	client := api.NewClient(cfg.BaseURL, transport.Client())
	fetcher.svc = client.Auth()

	return &app{cfg: cfg, controller: controller, client: client}, nil
}

func newStore(cfg cliConfig) (credstore.Store, error) {
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		return credstore.NewRedisStore(client, cfg.Redis.Prefix, 0), nil
	}

	dir := cfg.CredentialsDir
	if dir == "" {
		dir = defaultCredentialsDir()
	}
	return credstore.NewFileStore(dir)
}

// restore resolves the persisted session before a command runs.
func (a *app) restore(ctx context.Context) error {
	return a.controller.Restore(ctx)
}

func (a *app) close() {
	a.controller.Close()
}

// profileFor completes a login session that arrived without an inline user
// by asking /auth/me with the fresh token.
func (a *app) profileFor(ctx context.Context, session *api.Session) (*emsgate.Profile, error) {
	if session.User != nil {
		return session.User, nil
	}

	transport := gateway.NewTransport(staticToken(session.Token))
	return api.NewClient(a.cfg.BaseURL, transport.Client()).Auth().Me(ctx)
}
