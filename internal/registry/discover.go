package registry

import (
	"strings"

	"transkey/internal/domain"
)

// Discover implements output.KeyDiscovery. It returns the keys of every class
// and enum registered under scope, a package path prefix, in registration
// order. An empty scope selects every package; an enum with no discriminants
// contributes no keys.
func (t *Table) Discover(scope string) ([]domain.TranslationKey, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var keys []domain.TranslationKey
	for _, e := range t.types {
		if !inScope(e.info.Package, scope) {
			continue
		}
		switch e.info.Kind {
		case domain.KindClass:
			keys = append(keys, domain.NewClassKey(e.info.ID, e.info.Arg))
		case domain.KindEnum:
			for _, d := range e.discriminants {
				keys = append(keys, domain.NewEnumKey(e.info.ID, d.Name, e.info.Arg))
			}
		}
	}
	return keys, nil
}

func inScope(pkg, scope string) bool {
	scope = strings.TrimSuffix(scope, "/")
	if scope == "" || pkg == scope {
		return true
	}
	return strings.HasPrefix(pkg, scope+"/") || strings.HasPrefix(pkg, scope+".")
}
