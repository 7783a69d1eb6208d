package registry

import (
	"fmt"
	"strings"

	"transkey/internal/domain"
)

// EnumFamily is a registered enumerated key type. Every discriminant of a
// family shares the family's ArgType.
type EnumFamily struct {
	table *Table
	id    domain.TypeID
	arg   domain.ArgType
}

// Enum registers an enumerated key family. It panics on invalid input.
func (t *Table) Enum(pkg, name string, arg domain.ArgType, opts ...Option) *EnumFamily {
	spec := newSpec(pkg, name, domain.KindEnum, opts)
	spec.Arg = arg
	id := t.mustRegister(spec)
	return &EnumFamily{table: t, id: id, arg: arg}
}

func (f *EnumFamily) ID() domain.TypeID { return f.id }

func (f *EnumFamily) ArgType() domain.ArgType { return f.arg }

// Key declares a discriminant and returns its key. Only the Value part of an
// override option applies to discriminants. It panics on invalid input.
func (f *EnumFamily) Key(name string, opts ...Option) domain.EnumKey {
	var spec TypeSpec
	for _, opt := range opts {
		opt(&spec)
	}
	var override *domain.Override
	if spec.Override != nil && spec.Override.Value != "" {
		override = &domain.Override{Value: spec.Override.Value}
	}
	if err := f.table.AddDiscriminant(f.id, name, override); err != nil {
		panic("registry: " + err.Error())
	}
	return domain.NewEnumKey(f.id, name, f.arg)
}

// Keys returns the family's keys in declaration order.
func (f *EnumFamily) Keys() []domain.EnumKey {
	f.table.mu.RLock()
	defer f.table.mu.RUnlock()
	e := f.table.types[f.id]
	keys := make([]domain.EnumKey, 0, len(e.discriminants))
	for _, d := range e.discriminants {
		keys = append(keys, domain.NewEnumKey(f.id, d.Name, f.arg))
	}
	return keys
}

// AddDiscriminant declares a discriminant on the enum registered as id.
func (t *Table) AddDiscriminant(id domain.TypeID, name string, override *domain.Override) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: blank discriminant name", domain.ErrRegistration)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.lookup(id)
	if !ok {
		return fmt.Errorf("%w: unknown enum %d", domain.ErrRegistration, id)
	}
	if e.info.Kind != domain.KindEnum {
		return fmt.Errorf("%w: %s is not an enum", domain.ErrRegistration, e.info.Canonical())
	}
	if _, dup := e.byName[name]; dup {
		return fmt.Errorf("%w: %s.%s declared twice", domain.ErrRegistration, e.info.Canonical(), name)
	}
	d := domain.Discriminant{Name: name}
	if override != nil {
		d.Override = &domain.Override{Value: override.Value}
	}
	e.byName[name] = len(e.discriminants)
	e.discriminants = append(e.discriminants, d)
	return nil
}
