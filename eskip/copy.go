package eskip

// CopyPredicate creates a copy of the input predicate definition.
func CopyPredicate(p *PredicateDefinition) *PredicateDefinition {
	if p == nil {
		return nil
	}
	return &PredicateDefinition{Name: p.Name, Args: p.Args.Clone()}
}

// CopyPredicates creates a new slice with a copy of each predicate.
func CopyPredicates(p []*PredicateDefinition) []*PredicateDefinition {
	c := make([]*PredicateDefinition, len(p))
	for i, pi := range p {
		c[i] = CopyPredicate(pi)
	}
	return c
}

// CopyFilter creates a copy of the input filter definition.
func CopyFilter(f *FilterDefinition) *FilterDefinition {
	if f == nil {
		return nil
	}
	return &FilterDefinition{Name: f.Name, Args: f.Args.Clone()}
}

// CopyFilters creates a new slice with a copy of each filter.
func CopyFilters(f []*FilterDefinition) []*FilterDefinition {
	c := make([]*FilterDefinition, len(f))
	for i, fi := range f {
		c[i] = CopyFilter(fi)
	}
	return c
}

// Copy creates a deep copy of the input route definition.
func Copy(r *RouteDefinition) *RouteDefinition {
	if r == nil {
		return nil
	}
	return &RouteDefinition{
		Id:         r.Id,
		URI:        r.URI,
		Order:      r.Order,
		Predicates: CopyPredicates(r.Predicates),
		Filters:    CopyFilters(r.Filters),
	}
}

// CopyRoutes creates a new slice with a deep copy of each route.
func CopyRoutes(r []*RouteDefinition) []*RouteDefinition {
	c := make([]*RouteDefinition, len(r))
	for i, ri := range r {
		c[i] = Copy(ri)
	}
	return c
}
