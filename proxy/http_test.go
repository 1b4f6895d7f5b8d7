package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/skygate/gateway/async"
	"github.com/skygate/gateway/chain"
	"github.com/skygate/gateway/exchange"
)

func terminalNext(ctx context.Context, ex *exchange.Exchange) async.Completion[chain.Signal] {
	return async.Done(chain.Signal{}, nil)
}

func TestHttpFilterForwardsAndCapturesResponse(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-From-Backend", "yes")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("hello"))
	}))
	defer backend.Close()

	req := httptest.NewRequest("GET", "/anything", nil)
	ex := exchange.New(httptest.NewRecorder(), req)
	u, _ := url.Parse(backend.URL)
	ex.RequestURL = u

	f := NewHttpFilter(backend.Client())
	_, err := f.Filter(context.Background(), ex, terminalNext).Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if ex.ClientResponse == nil {
		t.Fatal("expected CLIENT_RESPONSE to be captured")
	}
	if ex.ClientResponse.StatusCode != http.StatusCreated {
		t.Fatalf("got status %d", ex.ClientResponse.StatusCode)
	}
	if !ex.AlreadyRouted() {
		t.Fatal("expected ALREADY_ROUTED to be set")
	}
}

func TestHttpFilterSkipsWhenAlreadyRouted(t *testing.T) {
	ex := exchange.New(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	ex.MarkAlreadyRouted()

	called := false
	next := func(ctx context.Context, ex *exchange.Exchange) async.Completion[chain.Signal] {
		called = true
		return async.Done(chain.Signal{}, nil)
	}

	f := NewHttpFilter(nil)
	if _, err := f.Filter(context.Background(), ex, next).Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("expected next to be called when already routed")
	}
	if ex.ClientResponse != nil {
		t.Fatal("must not forward a second time")
	}
}

func TestHttpFilterIgnoresNonHttpScheme(t *testing.T) {
	ex := exchange.New(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	u, _ := url.Parse("forward://some-handler")
	ex.RequestURL = u

	f := NewHttpFilter(nil)
	if _, err := f.Filter(context.Background(), ex, terminalNext).Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ex.AlreadyRouted() {
		t.Fatal("HttpFilter must not claim a non-http(s) scheme")
	}
}
