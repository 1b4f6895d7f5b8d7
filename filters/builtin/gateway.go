// This file implements the three core built-in filter factories:
// RewritePath, PrefixPath, AddRequestHeader. Each adapts a small mutation
// function to the factory.FilterFactory contract, built around
// chain.Filter.
package builtin

import (
	"context"
	"regexp"

	"github.com/skygate/gateway/async"
	"github.com/skygate/gateway/chain"
	"github.com/skygate/gateway/exchange"
)

// RewritePath runs a regular expression replacement against the request
// path.
type RewritePath struct{}

func (RewritePath) Name() string                { return "RewritePath" }
func (RewritePath) ShortcutFieldOrder() []string { return []string{"pattern", "replacement"} }
func (RewritePath) Apply(cfg map[string]string) (chain.Filter, error) {
	rx, err := regexp.Compile(cfg["pattern"])
	if err != nil {
		return nil, err
	}
	replacement := cfg["replacement"]

	return func(ctx context.Context, ex *exchange.Exchange, next chain.Next) async.Completion[chain.Signal] {
		ex.RequestURL.Path = rx.ReplaceAllString(ex.RequestURL.Path, replacement)
		return next(ctx, ex)
	}, nil
}

// PrefixPath prepends a fixed prefix to the request path.
type PrefixPath struct{}

func (PrefixPath) Name() string                { return "PrefixPath" }
func (PrefixPath) ShortcutFieldOrder() []string { return []string{"prefix"} }
func (PrefixPath) Apply(cfg map[string]string) (chain.Filter, error) {
	prefix := cfg["prefix"]
	return func(ctx context.Context, ex *exchange.Exchange, next chain.Next) async.Completion[chain.Signal] {
		ex.RequestURL.Path = prefix + ex.RequestURL.Path
		return next(ctx, ex)
	}, nil
}

// AddRequestHeader adds a header to the outgoing request, as a
// single-purpose "add" rather than distinguishing request/response types
// at the type level.
type AddRequestHeader struct{}

func (AddRequestHeader) Name() string                { return "AddRequestHeader" }
func (AddRequestHeader) ShortcutFieldOrder() []string { return []string{"name", "value"} }
func (AddRequestHeader) Apply(cfg map[string]string) (chain.Filter, error) {
	name, value := cfg["name"], cfg["value"]
	return func(ctx context.Context, ex *exchange.Exchange, next chain.Next) async.Completion[chain.Signal] {
		ex.Request.Header.Add(name, value)
		return next(ctx, ex)
	}, nil
}
