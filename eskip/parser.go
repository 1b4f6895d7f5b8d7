package eskip

import (
	"fmt"
	"strconv"
	"strings"
)

func errDefinitionError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ParsePredicate parses the predicate shortcut form "Name=a,b,c" into a
// PredicateDefinition: require '=', split once, left side is the name,
// right side is comma-tokenized and trimmed, stored in insertion order as
// "_genkey_i" args.
func ParsePredicate(text string) (*PredicateDefinition, error) {
	name, rawArgs, err := splitShortcut(text)
	if err != nil {
		return nil, fmt.Errorf("predicate %q: %w", text, err)
	}
	return &PredicateDefinition{Name: name, Args: ArgsFromPositional(rawArgs)}, nil
}

// ParseFilter parses the filter shortcut form "Name=a,b,c" the same way as
// ParsePredicate. Route documents normally configure filters structurally,
// but the shortcut form is the same grammar and is used by tests and by
// callers building definitions programmatically.
func ParseFilter(text string) (*FilterDefinition, error) {
	name, rawArgs, err := splitShortcut(text)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", text, err)
	}
	return &FilterDefinition{Name: name, Args: ArgsFromPositional(rawArgs)}, nil
}

func splitShortcut(text string) (name string, args []string, err error) {
	eq := strings.Index(text, "=")
	if eq < 0 {
		return "", nil, fmt.Errorf("missing '=' in shortcut form")
	}
	name = strings.TrimSpace(text[:eq])
	if name == "" {
		return "", nil, fmt.Errorf("empty name")
	}
	rest := text[eq+1:]
	if rest == "" {
		return name, nil, nil
	}
	for _, tok := range strings.Split(rest, ",") {
		args = append(args, strings.TrimSpace(tok))
	}
	return name, args, nil
}

// ParseRouteDefinition parses the route shortcut text form:
// "id=uri,pred1,pred2,…" — the first token after '=' is the URI, every
// remaining token is a predicate shortcut. Filters are not part of this
// text form; set the returned RouteDefinition's Filters or build it
// directly for routes that need them.
func ParseRouteDefinition(text string) (*RouteDefinition, error) {
	text = strings.TrimSpace(text)
	id, rest, err := splitShortcut(text)
	if err != nil {
		return nil, fmt.Errorf("route %q: %w", text, err)
	}
	if len(rest) == 0 {
		return nil, fmt.Errorf("route %q: uri is required", text)
	}

	uri := rest[0]
	predicates := make([]*PredicateDefinition, 0, len(rest)-1)
	for _, p := range rest[1:] {
		pd, err := ParsePredicate(p)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", text, err)
		}
		predicates = append(predicates, pd)
	}

	rd := NewRouteDefinition(id, uri, predicates, nil)
	if err := rd.Validate(); err != nil {
		return nil, err
	}
	return rd, nil
}

// ParseDocument parses a routes document: one route definition per
// non-empty, non-comment line. Lines starting with '#' and blank lines are
// skipped.
func ParseDocument(doc string) ([]*RouteDefinition, error) {
	var routes []*RouteDefinition
	for i, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rd, err := ParseRouteDefinition(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		routes = append(routes, rd)
	}
	return routes, nil
}

// ParseOrder parses an explicit integer route order, reporting false when
// s is not an integer.
func ParseOrder(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
