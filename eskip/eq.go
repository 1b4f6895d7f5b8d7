package eskip

// EqArgs reports whether two ordered argument lists are identical,
// including key and order.
func EqArgs(a, b Args) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EqPredicate reports whether two predicate definitions are identical.
func EqPredicate(a, b *PredicateDefinition) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && EqArgs(a.Args, b.Args)
}

// EqFilter reports whether two filter definitions are identical.
func EqFilter(a, b *FilterDefinition) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && EqArgs(a.Args, b.Args)
}

// Eq reports whether two route definitions are identical in every field
// that affects compilation (id, uri, order, predicates, filters).
func Eq(a, b *RouteDefinition) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Id != b.Id || a.URI != b.URI || a.Order != b.Order {
		return false
	}
	if len(a.Predicates) != len(b.Predicates) || len(a.Filters) != len(b.Filters) {
		return false
	}
	for i := range a.Predicates {
		if !EqPredicate(a.Predicates[i], b.Predicates[i]) {
			return false
		}
	}
	for i := range a.Filters {
		if !EqFilter(a.Filters[i], b.Filters[i]) {
			return false
		}
	}
	return true
}
