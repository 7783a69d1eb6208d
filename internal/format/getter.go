package format

import (
	"fmt"
	"reflect"

	"transkey/internal/domain"
)

// Getter extracts a value from a single-value argument.
type Getter interface {
	Get(arg domain.Arg) (any, error)
	Accepts(t domain.ArgType) bool
}

func single(arg domain.Arg, who string) (any, error) {
	v, ok := arg.Value()
	if !ok {
		return nil, &domain.ShapeError{Formatter: who, Want: domain.ShapeValue.String(), Got: arg.Shape()}
	}
	return v, nil
}

type selfGetter struct{}

// Self returns the argument value itself.
func Self() Getter { return selfGetter{} }

func (selfGetter) Get(arg domain.Arg) (any, error) { return single(arg, "Self") }

func (selfGetter) Accepts(t domain.ArgType) bool { return t.Shape == domain.ShapeValue }

type funcGetter[A, B any] struct {
	fn func(A) B
}

// Func adapts a typed accessor. It accepts value arguments whose type is
// assignable to A.
func Func[A, B any](fn func(A) B) Getter { return funcGetter[A, B]{fn: fn} }

func (g funcGetter[A, B]) Get(arg domain.Arg) (any, error) {
	v, err := single(arg, "Func")
	if err != nil {
		return nil, err
	}
	a, ok := v.(A)
	if !ok {
		return nil, fmt.Errorf("%w: Func: %T is not %v", domain.ErrArgumentShape, v, reflect.TypeFor[A]())
	}
	return g.fn(a), nil
}

func (g funcGetter[A, B]) Accepts(t domain.ArgType) bool {
	return t.Shape == domain.ShapeValue && t.Elem != nil && t.Elem.AssignableTo(reflect.TypeFor[A]())
}

type propertyGetter struct {
	name string
}

// Property reads an exported struct field or calls an exported niladic method
// returning one value. Pointers are followed.
func Property(name string) Getter { return propertyGetter{name: name} }

func (g propertyGetter) Get(arg domain.Arg) (any, error) {
	v, err := single(arg, "Property("+g.name+")")
	if err != nil {
		return nil, err
	}
	out, ok := property(reflect.ValueOf(v), g.name)
	if !ok {
		return nil, fmt.Errorf("%w: %T has no property %q", domain.ErrArgumentShape, v, g.name)
	}
	return out, nil
}

func (g propertyGetter) Accepts(t domain.ArgType) bool {
	return t.Shape == domain.ShapeValue && t.Elem != nil && hasProperty(t.Elem, g.name)
}

func property(v reflect.Value, name string) (any, bool) {
	if !v.IsValid() {
		return nil, false
	}
	if m := v.MethodByName(name); m.IsValid() && niladic(m.Type()) {
		return m.Call(nil)[0].Interface(), true
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
		if m := v.MethodByName(name); m.IsValid() && niladic(m.Type()) {
			return m.Call(nil)[0].Interface(), true
		}
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	f, ok := v.Type().FieldByName(name)
	if !ok || !f.IsExported() {
		return nil, false
	}
	return v.FieldByIndex(f.Index).Interface(), true
}

func hasProperty(t reflect.Type, name string) bool {
	for {
		if m, ok := t.MethodByName(name); ok {
			in := m.Type.NumIn()
			if t.Kind() != reflect.Interface {
				in-- // receiver
			}
			if in == 0 && m.Type.NumOut() == 1 {
				return true
			}
		}
		if t.Kind() != reflect.Pointer {
			break
		}
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	f, ok := t.FieldByName(name)
	return ok && f.IsExported()
}

// niladic reports whether a bound method type takes nothing and returns one value.
func niladic(t reflect.Type) bool {
	return t.NumIn() == 0 && t.NumOut() == 1
}
