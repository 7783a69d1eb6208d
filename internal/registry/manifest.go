package registry

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"transkey/internal/domain"
)

// Manifest is the TOML form of a set of type registrations:
//
//	[[type]]
//	package = "app"
//	name = "Greeting"
//	kind = "enum"
//	value = "app"
//	arg = "array"
//
//	  [[type.discriminant]]
//	  name = "GREETING"
type Manifest struct {
	Types []ManifestType `toml:"type"`
}

type ManifestType struct {
	Package       string                 `toml:"package"`
	Name          string                 `toml:"name"`
	Kind          string                 `toml:"kind"`
	Value         string                 `toml:"value"`
	Prefix        string                 `toml:"prefix"`
	Implements    []string               `toml:"implements"`
	Extends       string                 `toml:"extends"`
	Arg           string                 `toml:"arg"`
	Discriminants []ManifestDiscriminant `toml:"discriminant"`
}

type ManifestDiscriminant struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

func (m ManifestType) canonical() string {
	return domain.TypeInfo{Package: m.Package, Name: m.Name}.Canonical()
}

// LoadManifestFile reads a TOML manifest from path into t.
func LoadManifestFile(t *Table, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return LoadManifest(t, f)
}

// LoadManifest decodes a TOML manifest and registers its types. Supertypes may
// be declared after the types that reference them; a reference that never
// resolves is reported as a discovery failure of the referencing type.
func LoadManifest(t *Table, r io.Reader) error {
	var m Manifest
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&m); err != nil {
		return fmt.Errorf("decode manifest: %w", err)
	}

	pending := m.Types
	for len(pending) > 0 {
		var next []ManifestType
		for _, mt := range pending {
			spec, ok, err := t.specFor(mt)
			if err != nil {
				return err
			}
			if !ok {
				next = append(next, mt)
				continue
			}
			id, err := t.Register(spec)
			if err != nil {
				return fmt.Errorf("register %s: %w", mt.canonical(), err)
			}
			for _, d := range mt.Discriminants {
				var override *domain.Override
				if d.Value != "" {
					override = &domain.Override{Value: d.Value}
				}
				if err := t.AddDiscriminant(id, d.Name, override); err != nil {
					return fmt.Errorf("register %s: %w", mt.canonical(), err)
				}
			}
		}
		if len(next) == len(pending) {
			mt := next[0]
			return &domain.DiscoveryError{
				Type: mt.canonical(),
				Err:  fmt.Errorf("%w: unresolved supertype %s", domain.ErrRegistration, t.firstUnresolved(mt)),
			}
		}
		pending = next
	}
	return nil
}

// specFor converts a manifest entry. ok is false while a supertype is not yet
// registered.
func (t *Table) specFor(mt ManifestType) (TypeSpec, bool, error) {
	kind, err := parseKind(mt.Kind)
	if err != nil {
		return TypeSpec{}, false, fmt.Errorf("register %s: %w", mt.canonical(), err)
	}
	shape, err := domain.ParseShape(mt.Arg)
	if err != nil {
		return TypeSpec{}, false, fmt.Errorf("register %s: %w: %v", mt.canonical(), domain.ErrRegistration, err)
	}

	spec := TypeSpec{
		Package: mt.Package,
		Name:    mt.Name,
		Kind:    kind,
		Super:   domain.NoType,
		Arg:     domain.AnyOf(shape),
	}
	if kind == domain.KindClass {
		spec.Arg = domain.AnyOf(domain.ShapeValue)
	}
	if mt.Value != "" || mt.Prefix != "" {
		spec.Override = &domain.Override{Value: mt.Value, Prefix: mt.Prefix}
	}
	for _, name := range mt.Implements {
		id, ok := t.Lookup(name)
		if !ok {
			return TypeSpec{}, false, nil
		}
		spec.Interfaces = append(spec.Interfaces, id)
	}
	if mt.Extends != "" {
		id, ok := t.Lookup(mt.Extends)
		if !ok {
			return TypeSpec{}, false, nil
		}
		spec.Super = id
	}
	return spec, true, nil
}

func (t *Table) firstUnresolved(mt ManifestType) string {
	for _, name := range slices.Concat(mt.Implements, []string{mt.Extends}) {
		if name == "" {
			continue
		}
		if _, ok := t.Lookup(name); !ok {
			return name
		}
	}
	return ""
}

func parseKind(s string) (domain.Kind, error) {
	switch strings.ToLower(s) {
	case "interface":
		return domain.KindInterface, nil
	case "class", "":
		return domain.KindClass, nil
	case "enum":
		return domain.KindEnum, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", domain.ErrRegistration, s)
}
