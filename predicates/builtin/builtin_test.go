package builtin

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/skygate/gateway/exchange"
	"github.com/skygate/gateway/predicate"
)

func evalWith(t *testing.T, p predicate.Predicate, ex *exchange.Exchange) bool {
	t.Helper()
	ok, err := predicate.Eval(context.Background(), p, ex)
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

func TestPathMatchesExact(t *testing.T) {
	p, err := Path{}.Apply(map[string]string{"pattern": "/orders"})
	if err != nil {
		t.Fatal(err)
	}
	ex := exchange.New(httptest.NewRecorder(), httptest.NewRequest("GET", "/orders", nil))
	if !evalWith(t, p, ex) {
		t.Fatal("expected /orders to match")
	}
	ex2 := exchange.New(httptest.NewRecorder(), httptest.NewRequest("GET", "/other", nil))
	if evalWith(t, p, ex2) {
		t.Fatal("expected /other not to match")
	}
}

func TestHostMatchesPattern(t *testing.T) {
	p, err := Host{}.Apply(map[string]string{"pattern": "^example\\.com$"})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("GET", "/", nil)
	req.Host = "example.com:8080"
	ex := exchange.New(httptest.NewRecorder(), req)
	if !evalWith(t, p, ex) {
		t.Fatal("expected host match, stripping port")
	}
}

func TestMethodIsCaseInsensitive(t *testing.T) {
	p, err := Method{}.Apply(map[string]string{"method": "get"})
	if err != nil {
		t.Fatal(err)
	}
	ex := exchange.New(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !evalWith(t, p, ex) {
		t.Fatal("expected GET to match get")
	}
}

func TestHeaderMatchesValue(t *testing.T) {
	p, err := Header{}.Apply(map[string]string{"name": "X-Api-Key", "value": "secret"})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Api-Key", "secret")
	ex := exchange.New(httptest.NewRecorder(), req)
	if !evalWith(t, p, ex) {
		t.Fatal("expected header match")
	}
}
