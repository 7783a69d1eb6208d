// Package registry holds the statically registered type lattice that key
// strings are derived from. Types are stored in an arena and reference their
// supertypes by index; registration happens once at startup, either from Go
// code or from a TOML manifest.
package registry

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"transkey/internal/domain"
	"transkey/internal/ports/output"
)

var (
	_ output.TypeIntrospector = (*Table)(nil)
	_ output.KeyDiscovery     = (*Table)(nil)
)

type entry struct {
	info          domain.TypeInfo
	discriminants []domain.Discriminant
	byName        map[string]int
}

// Table is an arena of type descriptors. It is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	types   []*entry
	byName  map[string]domain.TypeID
	byGoTyp map[reflect.Type]domain.TypeID
}

func New() *Table {
	return &Table{
		byName:  make(map[string]domain.TypeID),
		byGoTyp: make(map[reflect.Type]domain.TypeID),
	}
}

// TypeSpec is the registration form of a type descriptor.
type TypeSpec struct {
	Package    string
	Name       string
	Kind       domain.Kind
	Interfaces []domain.TypeID
	Super      domain.TypeID
	Override   *domain.Override
	Arg        domain.ArgType
	GoType     reflect.Type
}

// Option customizes a TypeSpec.
type Option func(*TypeSpec)

// WithValue overrides the whole type part of the key string.
func WithValue(value string) Option {
	return func(s *TypeSpec) {
		if s.Override == nil {
			s.Override = &domain.Override{}
		}
		s.Override.Value = value
	}
}

// WithPrefix replaces the package part of the key string.
func WithPrefix(prefix string) Option {
	return func(s *TypeSpec) {
		if s.Override == nil {
			s.Override = &domain.Override{}
		}
		s.Override.Prefix = prefix
	}
}

// Implements appends direct interfaces, in declaration order.
func Implements(ids ...domain.TypeID) Option {
	return func(s *TypeSpec) { s.Interfaces = append(s.Interfaces, ids...) }
}

// Extends sets the superclass.
func Extends(id domain.TypeID) Option {
	return func(s *TypeSpec) { s.Super = id }
}

// Register validates spec and adds it to the arena.
func (t *Table) Register(spec TypeSpec) (domain.TypeID, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return domain.NoType, fmt.Errorf("%w: blank type name in package %q", domain.ErrRegistration, spec.Package)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	info := domain.TypeInfo{
		ID:         domain.TypeID(len(t.types)),
		Package:    spec.Package,
		Name:       spec.Name,
		Kind:       spec.Kind,
		Interfaces: slices.Clone(spec.Interfaces),
		Super:      spec.Super,
		Arg:        spec.Arg,
	}
	if spec.Override != nil {
		o := *spec.Override
		info.Override = &o
	}
	canonical := info.Canonical()
	if _, dup := t.byName[canonical]; dup {
		return domain.NoType, fmt.Errorf("%w: %s registered twice", domain.ErrRegistration, canonical)
	}
	for _, id := range info.Interfaces {
		e, ok := t.lookup(id)
		if !ok {
			return domain.NoType, fmt.Errorf("%w: %s implements unknown type %d", domain.ErrRegistration, canonical, id)
		}
		if e.info.Kind != domain.KindInterface {
			return domain.NoType, fmt.Errorf("%w: %s implements %s which is not an interface",
				domain.ErrRegistration, canonical, e.info.Canonical())
		}
	}
	if info.Super != domain.NoType {
		e, ok := t.lookup(info.Super)
		if !ok {
			return domain.NoType, fmt.Errorf("%w: %s extends unknown type %d", domain.ErrRegistration, canonical, info.Super)
		}
		if e.info.Kind == domain.KindInterface {
			return domain.NoType, fmt.Errorf("%w: %s extends interface %s", domain.ErrRegistration, canonical, e.info.Canonical())
		}
	}
	if info.Kind == domain.KindClass && info.Arg.Shape != domain.ShapeValue {
		info.Arg = domain.ArgType{Shape: domain.ShapeValue, Elem: spec.GoType}
	}

	t.types = append(t.types, &entry{info: info, byName: make(map[string]int)})
	t.byName[canonical] = info.ID
	if spec.GoType != nil {
		t.byGoTyp[spec.GoType] = info.ID
	}
	return info.ID, nil
}

func (t *Table) mustRegister(spec TypeSpec) domain.TypeID {
	id, err := t.Register(spec)
	if err != nil {
		panic("registry: " + err.Error())
	}
	return id
}

func newSpec(pkg, name string, kind domain.Kind, opts []Option) TypeSpec {
	spec := TypeSpec{Package: pkg, Name: name, Kind: kind, Super: domain.NoType}
	for _, opt := range opts {
		opt(&spec)
	}
	return spec
}

// Interface registers a supertype that carries no keys itself but may carry
// an override inherited by its implementors. It panics on invalid input.
func (t *Table) Interface(pkg, name string, opts ...Option) domain.TypeID {
	return t.mustRegister(newSpec(pkg, name, domain.KindInterface, opts))
}

// Class registers goType as a translatable type and returns its key.
// It panics on invalid input.
func (t *Table) Class(goType reflect.Type, opts ...Option) domain.ClassKey {
	for goType.Kind() == reflect.Pointer {
		goType = goType.Elem()
	}
	spec := newSpec(goType.PkgPath(), goType.Name(), domain.KindClass, opts)
	spec.GoType = goType
	spec.Arg = domain.ArgType{Shape: domain.ShapeValue, Elem: goType}
	id := t.mustRegister(spec)
	return domain.NewClassKey(id, spec.Arg)
}

// ClassOf registers T as a translatable type.
func ClassOf[T any](t *Table, opts ...Option) domain.ClassKey {
	return t.Class(reflect.TypeFor[T](), opts...)
}

// KeyOf returns the ClassKey registered for the dynamic type of v.
func (t *Table) KeyOf(v any) (domain.ClassKey, bool) {
	rt := reflect.TypeOf(v)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byGoTyp[rt]
	if !ok {
		return domain.ClassKey{}, false
	}
	return domain.NewClassKey(id, t.types[id].info.Arg), true
}

// Lookup resolves a canonical type name.
func (t *Table) Lookup(canonical string) (domain.TypeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byName[canonical]
	return id, ok
}

func (t *Table) lookup(id domain.TypeID) (*entry, bool) {
	if id < 0 || int(id) >= len(t.types) {
		return nil, false
	}
	return t.types[id], true
}

// Describe implements output.TypeIntrospector.
func (t *Table) Describe(id domain.TypeID) (domain.TypeInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.lookup(id)
	if !ok {
		return domain.TypeInfo{}, false
	}
	info := e.info
	info.Interfaces = slices.Clone(info.Interfaces)
	return info, true
}

// Discriminant implements output.TypeIntrospector.
func (t *Table) Discriminant(id domain.TypeID, name string) (domain.Discriminant, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.lookup(id)
	if !ok || e.info.Kind != domain.KindEnum {
		return domain.Discriminant{}, false
	}
	i, ok := e.byName[name]
	if !ok {
		return domain.Discriminant{}, false
	}
	return e.discriminants[i], true
}

// Len returns the number of registered types.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.types)
}
