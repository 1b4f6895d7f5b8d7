package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skygate/gateway/async"
	"github.com/skygate/gateway/chain"
	"github.com/skygate/gateway/exchange"
	"github.com/skygate/gateway/ratelimit"
)

func newEx(remoteAddr string) *exchange.Exchange {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = remoteAddr
	return exchange.New(httptest.NewRecorder(), r)
}

func terminalNext(ctx context.Context, ex *exchange.Exchange) async.Completion[chain.Signal] {
	return async.Done(chain.Signal{}, nil)
}

func TestAllowedRequestCallsNext(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	f := New(store, "route-a", Config{MaxHits: 2, Window: time.Minute, Key: RemoteAddrKey})

	called := false
	next := func(ctx context.Context, ex *exchange.Exchange) async.Completion[chain.Signal] {
		called = true
		return async.Done(chain.Signal{}, nil)
	}

	ex := newEx("10.0.0.1:1234")
	if _, err := f(context.Background(), ex, next).Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("expected next to be called for an allowed request")
	}
}

func TestDeniedRequestTerminatesAndSetsStatus(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	f := New(store, "route-b", Config{MaxHits: 1, Window: time.Minute, Key: RemoteAddrKey})

	ex := newEx("10.0.0.2:1234")
	f(context.Background(), ex, terminalNext).Get(context.Background())

	called := false
	next := func(ctx context.Context, ex *exchange.Exchange) async.Completion[chain.Signal] {
		called = true
		return async.Done(chain.Signal{}, nil)
	}
	if _, err := f(context.Background(), ex, next).Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Fatal("next must not be called once the bucket is exhausted")
	}
	if ex.ResponseStatus != 429 {
		t.Fatalf("got status %d, want 429", ex.ResponseStatus)
	}
	if !ex.Served() {
		t.Fatal("expected the exchange to be marked served on denial")
	}
}

func TestEmptyKeyPolicy(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	f := New(store, "route-c", Config{MaxHits: 1, Window: time.Minute, DenyEmptyKey: true, Key: func(*exchange.Exchange) string { return "" }})

	ex := newEx("")
	if _, err := f(context.Background(), ex, terminalNext).Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ex.ResponseStatus != 403 {
		t.Fatalf("got %d, want 403 when denying empty keys", ex.ResponseStatus)
	}
}

func TestFactoryDeniesEmptyKeyByDefault(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	factory := Factory{Store: store, Key: func(*exchange.Exchange) string { return "" }}

	f, err := factory.Apply(map[string]string{"maxHits": "1", "window": "1m"})
	if err != nil {
		t.Fatal(err)
	}

	ex := newEx("")
	if _, err := f(context.Background(), ex, terminalNext).Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !ex.Served() {
		t.Fatal("expected the exchange to be marked served on empty-key denial")
	}
	if ex.ResponseStatus != http.StatusForbidden {
		t.Fatalf("got %d, want 403 by default", ex.ResponseStatus)
	}
}
