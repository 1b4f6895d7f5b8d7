package eskip

import "strings"

func shortcutString(name string, args Args) string {
	if len(args) == 0 {
		return name + "="
	}
	return name + "=" + strings.Join(args.Values(), ",")
}

// String renders a predicate definition back to its shortcut text form.
func (p *PredicateDefinition) String() string {
	if p == nil {
		return ""
	}
	return shortcutString(p.Name, p.Args)
}

// String renders a filter definition back to its shortcut text form.
func (f *FilterDefinition) String() string {
	if f == nil {
		return ""
	}
	return shortcutString(f.Name, f.Args)
}

// String renders a route definition back to the route shortcut text form
// ("id=uri,pred1,pred2,…"). Filters are not part of this form
// and are omitted.
func (r *RouteDefinition) String() string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, len(r.Predicates)+1)
	parts = append(parts, r.URI)
	for _, p := range r.Predicates {
		parts = append(parts, p.String())
	}
	return r.Id + "=" + strings.Join(parts, ",")
}
