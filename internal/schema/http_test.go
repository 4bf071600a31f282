package schema

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPStoreResolve(t *testing.T) {
	const body = `{"type": "object"}`
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(body))
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.Client())
	content, err := store.Resolve(context.Background(), srv.URL+"/coffeelint")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if content != body {
		t.Errorf("content = %q", content)
	}
	if gotPath != "/coffeelint" {
		t.Errorf("requested path = %q", gotPath)
	}
}

func TestHTTPStoreResolveFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.Client())
	_, err := store.Resolve(context.Background(), srv.URL+"/missing")
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	// The failure carries the transport's status text.
	if !strings.Contains(err.Error(), "404 Not Found") {
		t.Errorf("error = %v, want the HTTP status text", err)
	}
	if !strings.Contains(err.Error(), srv.URL+"/missing") {
		t.Errorf("error = %v, want the schema URL", err)
	}
}

func TestHTTPStoreResolveCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewHTTPStore(srv.Client())
	if _, err := store.Resolve(ctx, srv.URL); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}

func TestHTTPStoreDefaultClient(t *testing.T) {
	store := NewHTTPStore(nil)
	if store.client == nil || store.client.Timeout == 0 {
		t.Error("nil client should get a default with a timeout")
	}
}
