package eskip

import "fmt"

// PredicatesContain checks if the list has a predicate with the given name.
func PredicatesContain(p []*PredicateDefinition, name string) bool {
	for _, pi := range p {
		if pi.Name == name {
			return true
		}
	}
	return false
}

// AllPredicatesByName returns every predicate matching name.
func AllPredicatesByName(p []*PredicateDefinition, name string) []*PredicateDefinition {
	var pp []*PredicateDefinition
	for _, pi := range p {
		if pi.Name == name {
			pp = append(pp, pi)
		}
	}
	return pp
}

// SinglePredicateByName returns the matching predicate, or an error when
// more than one predicate of that name is present.
func SinglePredicateByName(p []*PredicateDefinition, name string) (*PredicateDefinition, error) {
	pp := AllPredicatesByName(p, name)
	switch len(pp) {
	case 0:
		return nil, nil
	case 1:
		return pp[0], nil
	default:
		return nil, fmt.Errorf("multiple predicates of the same name: %d %s", len(pp), name)
	}
}

// FilterByName returns the first filter matching name, or nil.
func FilterByName(f []*FilterDefinition, name string) *FilterDefinition {
	for _, fi := range f {
		if fi.Name == name {
			return fi
		}
	}
	return nil
}
