// Package builtin implements the four core built-in predicate factories:
// Path, Host, Method, Header. Each adapts a small matching function to
// the factory.PredicateFactory contract.
package builtin

import (
	"regexp"
	"strings"

	"github.com/skygate/gateway/exchange"
	"github.com/skygate/gateway/predicate"
)

// Path matches the request's URL path against an exact string.
type Path struct{}

func (Path) Name() string                { return "Path" }
func (Path) ShortcutFieldOrder() []string { return []string{"pattern"} }
func (Path) Apply(cfg map[string]string) (predicate.Predicate, error) {
	pattern := cfg["pattern"]
	return predicate.ToAsync(func(ex *exchange.Exchange) bool {
		return ex.Request.URL.Path == pattern
	}), nil
}

// Host matches the request's Host header against a regular expression.
type Host struct{}

func (Host) Name() string                { return "Host" }
func (Host) ShortcutFieldOrder() []string { return []string{"pattern"} }
func (Host) Apply(cfg map[string]string) (predicate.Predicate, error) {
	rx, err := regexp.Compile(cfg["pattern"])
	if err != nil {
		return nil, err
	}
	return predicate.ToAsync(func(ex *exchange.Exchange) bool {
		host := ex.Request.Host
		if h, _, ok := strings.Cut(host, ":"); ok {
			host = h
		}
		return rx.MatchString(host)
	}), nil
}

// Method matches the request's HTTP method, case-insensitively.
type Method struct{}

func (Method) Name() string                { return "Method" }
func (Method) ShortcutFieldOrder() []string { return []string{"method"} }
func (Method) Apply(cfg map[string]string) (predicate.Predicate, error) {
	method := strings.ToUpper(cfg["method"])
	return predicate.ToAsync(func(ex *exchange.Exchange) bool {
		return ex.Request.Method == method
	}), nil
}

// Header matches a named request header against an exact value.
type Header struct{}

func (Header) Name() string                { return "Header" }
func (Header) ShortcutFieldOrder() []string { return []string{"name", "value"} }
func (Header) Apply(cfg map[string]string) (predicate.Predicate, error) {
	name, value := cfg["name"], cfg["value"]
	return predicate.ToAsync(func(ex *exchange.Exchange) bool {
		return ex.Request.Header.Get(name) == value
	}), nil
}
