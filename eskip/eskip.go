// Package eskip implements the route definition model: PredicateDefinition,
// FilterDefinition and RouteDefinition, plus the textual shortcut grammar
// used to write them compactly, built around a generic, typed-config
// factory contract rather than a fixed predicate catalogue.
package eskip

import "github.com/google/uuid"

// Arg is one positional or named argument of a predicate/filter
// definition, preserving insertion order. Key is still a generated
// "_genkey_i" placeholder until normalization runs.
type Arg struct {
	Key   string
	Value string
}

// Args is an ordered argument list. Unlike a map, it keeps the insertion
// order required to bind "_genkey_i" positions.
type Args []Arg

// Get returns the value for key and whether it was present.
func (a Args) Get(key string) (string, bool) {
	for _, kv := range a {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Values returns just the ordered values, discarding keys; used for
// genkey-only argument lists from the short-form parse.
func (a Args) Values() []string {
	vs := make([]string, len(a))
	for i, kv := range a {
		vs[i] = kv.Value
	}
	return vs
}

// IsPositional reports whether every argument still uses a generated
// "_genkey_i" key, i.e. normalization has not run yet.
func (a Args) IsPositional() bool {
	for i, kv := range a {
		if kv.Key != genKey(i) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the argument list.
func (a Args) Clone() Args {
	c := make(Args, len(a))
	copy(c, a)
	return c
}

func genKey(i int) string {
	return "_genkey_" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	n := i
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// ArgsFromPositional builds an Args list from plain comma-split values,
// keyed "_genkey_0", "_genkey_1", ... matching the short-form rule.
func ArgsFromPositional(values []string) Args {
	a := make(Args, len(values))
	for i, v := range values {
		a[i] = Arg{Key: genKey(i), Value: v}
	}
	return a
}

// PredicateDefinition is the parsed, not-yet-compiled form of a route
// predicate.
type PredicateDefinition struct {
	Name string
	Args Args
}

// FilterDefinition is the parsed, not-yet-compiled form of a route filter.
type FilterDefinition struct {
	Name string
	Args Args
}

// RouteDefinition is the parsed route: id defaults to a random
// UUID, Predicates must be non-empty, URI is required.
type RouteDefinition struct {
	Id         string
	URI        string
	Order      int
	Predicates []*PredicateDefinition
	Filters    []*FilterDefinition
}

// NewRouteDefinition builds a RouteDefinition, generating a random id if
// one was not supplied.
func NewRouteDefinition(id, uri string, predicates []*PredicateDefinition, filters []*FilterDefinition) *RouteDefinition {
	if id == "" {
		id = uuid.NewString()
	}
	return &RouteDefinition{Id: id, URI: uri, Predicates: predicates, Filters: filters}
}

// Validate checks the two structural invariants: a URI must be present and
// at least one predicate must be defined.
func (r *RouteDefinition) Validate() error {
	if r.URI == "" {
		return errDefinitionError("route %q: uri is required", r.Id)
	}
	if len(r.Predicates) == 0 {
		return errDefinitionError("route %q: at least one predicate is required", r.Id)
	}
	return nil
}
