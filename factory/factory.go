// Package factory implements a named-factory/registry pattern: predicates
// and filters are produced from eskip argument lists by factories
// registered under the name used in route definitions, with positional
// shortcut arguments normalized to named fields and "#{…}" values routed
// through an Evaluator.
package factory

import (
	"fmt"

	"github.com/skygate/gateway/chain"
	"github.com/skygate/gateway/eskip"
	"github.com/skygate/gateway/expr"
	"github.com/skygate/gateway/predicate"
)

// Shortcut describes how a factory's positional shortcut arguments
// (eskip's "_genkey_i" placeholders) map onto named fields, so that
// "Name=a,b,c" normalizes to the same map as a definition whose Args are
// already keyed key1=a, key2=b, key3=c.
type Shortcut interface {
	// ShortcutFieldOrder names the fields a positional argument list binds
	// to, in order. An empty slice means the factory takes no shortcut
	// form.
	ShortcutFieldOrder() []string
}

// PredicateFactory produces a predicate.Predicate from normalized config.
type PredicateFactory interface {
	Shortcut
	Name() string
	Apply(config map[string]string) (predicate.Predicate, error)
}

// FilterFactory produces a chain.Filter from normalized config.
type FilterFactory interface {
	Shortcut
	Name() string
	Apply(config map[string]string) (chain.Filter, error)
}

// PredicateRegistry maps a predicate name to the factory that builds it.
type PredicateRegistry map[string]PredicateFactory

func (r PredicateRegistry) Register(f PredicateFactory) { r[f.Name()] = f }

// FilterRegistry maps a filter name to the factory that builds it.
type FilterRegistry map[string]FilterFactory

func (r FilterRegistry) Register(f FilterFactory) { r[f.Name()] = f }

// Normalize implements the argument-binding algorithm:
//  1. if the args are positional ("_genkey_i"), rewrite each key to the
//     corresponding name from fieldOrder;
//  2. evaluate any "#{…}" value through eval, using env as its context;
//  3. otherwise keep the key/value verbatim;
//  4. return the resulting name -> value map for the factory's own Apply
//     to read, avoiding a reflection-based bind onto a config struct.
func Normalize(args eskip.Args, fieldOrder []string, eval expr.Evaluator, env map[string]interface{}) (map[string]string, error) {
	out := make(map[string]string, len(args))

	for i, a := range args {
		key := a.Key
		if args.IsPositional() {
			if i >= len(fieldOrder) {
				return nil, fmt.Errorf("positional argument %d has no matching field", i)
			}
			key = fieldOrder[i]
		}

		value := a.Value
		if expr.IsExpression(value) {
			evaluated, err := eval.Evaluate(expr.Body(value), env)
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", key, err)
			}
			value = evaluated
		}

		out[key] = value
	}

	return out, nil
}

// BuildPredicate looks up def.Name in reg, normalizes def.Args against the
// factory's shortcut field order, and applies it.
func BuildPredicate(reg PredicateRegistry, def *eskip.PredicateDefinition, eval expr.Evaluator, env map[string]interface{}) (predicate.Predicate, error) {
	f, ok := reg[def.Name]
	if !ok {
		return nil, fmt.Errorf("unknown predicate %q", def.Name)
	}
	cfg, err := Normalize(def.Args, f.ShortcutFieldOrder(), eval, env)
	if err != nil {
		return nil, fmt.Errorf("predicate %q: %w", def.Name, err)
	}
	return f.Apply(cfg)
}

// BuildFilter looks up def.Name in reg, normalizes def.Args against the
// factory's shortcut field order, and applies it.
func BuildFilter(reg FilterRegistry, def *eskip.FilterDefinition, eval expr.Evaluator, env map[string]interface{}) (chain.Filter, error) {
	f, ok := reg[def.Name]
	if !ok {
		return nil, fmt.Errorf("unknown filter %q", def.Name)
	}
	cfg, err := Normalize(def.Args, f.ShortcutFieldOrder(), eval, env)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", def.Name, err)
	}
	return f.Apply(cfg)
}
