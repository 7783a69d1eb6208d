package output

import "transkey/internal/domain"

// TypeIntrospector reads the registered type lattice.
type TypeIntrospector interface {
	// Describe returns the descriptor of id, with its direct supertypes.
	Describe(id domain.TypeID) (domain.TypeInfo, bool)
	// Discriminant returns the named variant of an enumerated key type.
	Discriminant(id domain.TypeID, name string) (domain.Discriminant, bool)
}

// KeyDiscovery enumerates every declared key within a scope.
type KeyDiscovery interface {
	Discover(scope string) ([]domain.TranslationKey, error)
}
