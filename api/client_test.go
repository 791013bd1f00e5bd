package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emstack/emsgate"
)

func TestDecodeEnvelopePrefersDataField(t *testing.T) {
	var out []Customer
	raw := []byte(`{"data":[{"id":1,"name":"ACME","email":"a@acme.test"}],"message":"ok"}`)
	if err := decodeEnvelope(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].Name != "ACME" {
		t.Fatalf("unexpected decode: %+v", out)
	}
}

func TestDecodeEnvelopeFallsBackToBareBody(t *testing.T) {
	var out Customer
	raw := []byte(`{"id":2,"name":"Bare","email":"b@x.test"}`)
	if err := decodeEnvelope(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != 2 || out.Name != "Bare" {
		t.Fatalf("unexpected decode: %+v", out)
	}
}

func TestDecodeEnvelopeNullData(t *testing.T) {
	var out Customer
	raw := []byte(`{"data":null,"id":3,"name":"NullData"}`)
	if err := decodeEnvelope(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != 3 {
		t.Fatalf("null data field must fall back to the body, got %+v", out)
	}
}

func TestStatusErrorMapsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "req-1")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad credentials"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Customers().List(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, emsgate.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized via errors.Is", err)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %T, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized || statusErr.Message != "bad credentials" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
	if statusErr.RequestID != "req-1" {
		t.Fatalf("request id = %q, want req-1", statusErr.RequestID)
	}
}

func TestStatusErrorNotUnauthorizedForOtherCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Customers().List(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, emsgate.ErrUnauthorized) {
		t.Fatal("a 500 must not satisfy ErrUnauthorized")
	}
}

func TestResourcePaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/api", nil)
	ctx := context.Background()

	if _, err := client.Customers().List(ctx); err != nil {
		t.Fatalf("customers: %v", err)
	}
	if _, err := client.Orders().List(ctx); err != nil {
		t.Fatalf("orders: %v", err)
	}
	if err := client.Products().Delete(ctx, 5); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	want := []string{"GET /api/clientes", "GET /api/pedidos", "DELETE /api/productos/5"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("path %d = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestResourceCreateDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		_, _ = w.Write([]byte(`{"data":{"id":9,"name":"Widget","price":9.5}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	created, err := client.Products().Create(context.Background(), Product{Name: "Widget", Price: 9.5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 9 || created.Name != "Widget" {
		t.Fatalf("unexpected product: %+v", created)
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", nil)
	if client.BaseURL() != DefaultBaseURL {
		t.Fatalf("base url = %q, want default", client.BaseURL())
	}

	trimmed := NewClient("http://host/api/", nil)
	if trimmed.BaseURL() != "http://host/api" {
		t.Fatalf("base url = %q, want trailing slash trimmed", trimmed.BaseURL())
	}
}
