package domain

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
)

// Shape is the structural category of a translation argument.
type Shape int

const (
	ShapeVoid Shape = iota
	ShapeValue
	ShapeArray
	ShapeIterable
)

func (s Shape) String() string {
	switch s {
	case ShapeVoid:
		return "void"
	case ShapeValue:
		return "value"
	case ShapeArray:
		return "array"
	case ShapeIterable:
		return "iterable"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape is the inverse of Shape.String.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "void", "":
		return ShapeVoid, nil
	case "value":
		return ShapeValue, nil
	case "array":
		return ShapeArray, nil
	case "iterable":
		return ShapeIterable, nil
	}
	return ShapeVoid, fmt.Errorf("unknown argument shape %q", s)
}

// ArgType describes the argument a key declares. Elem is the value type for
// ShapeValue and the element type for ShapeArray/ShapeIterable. A nil Elem
// means the type is unknown.
type ArgType struct {
	Shape Shape
	Elem  reflect.Type
}

// VoidArg is the ArgType of keys that take no argument.
var VoidArg = ArgType{Shape: ShapeVoid}

func ValueOf[T any]() ArgType { return ArgType{Shape: ShapeValue, Elem: reflect.TypeFor[T]()} }
func ArrayOf[T any]() ArgType { return ArgType{Shape: ShapeArray, Elem: reflect.TypeFor[T]()} }
func IterableOf[T any]() ArgType { return ArgType{Shape: ShapeIterable, Elem: reflect.TypeFor[T]()} }

// AnyOf returns an ArgType of the given shape with an unknown element type.
func AnyOf(s Shape) ArgType { return ArgType{Shape: s} }

func (t ArgType) String() string {
	if t.Shape == ShapeVoid || t.Elem == nil {
		return t.Shape.String()
	}
	return t.Shape.String() + "(" + t.Elem.String() + ")"
}

// Arg is a translation argument tagged with its shape.
// The zero value is NoArg.
type Arg struct {
	shape  Shape
	value  any
	values []any
	seq    iter.Seq[any]
}

func NoArg() Arg { return Arg{shape: ShapeVoid} }

func One(v any) Arg { return Arg{shape: ShapeValue, value: v} }

func Many(vs ...any) Arg { return Arg{shape: ShapeArray, values: slices.Clone(vs)} }

func Seq(seq iter.Seq[any]) Arg {
	if seq == nil {
		seq = func(func(any) bool) {}
	}
	return Arg{shape: ShapeIterable, seq: seq}
}

func (a Arg) Shape() Shape { return a.shape }

// Value returns the single value of a ShapeValue argument.
func (a Arg) Value() (any, bool) {
	if a.shape != ShapeValue {
		return nil, false
	}
	return a.value, true
}

// Values returns the elements of an array or iterable argument in order.
// Iterables are drained on every call.
func (a Arg) Values() ([]any, bool) {
	switch a.shape {
	case ShapeArray:
		return a.values, true
	case ShapeIterable:
		return slices.Collect(a.seq), true
	default:
		return nil, false
	}
}

func (a Arg) String() string {
	switch a.shape {
	case ShapeVoid:
		return "NoArg"
	case ShapeValue:
		return fmt.Sprintf("One(%v)", a.value)
	case ShapeArray:
		return fmt.Sprintf("Many%v", a.values)
	default:
		return "Seq(...)"
	}
}

// ArgAs adapts a plain Go value to the declared ArgType. Slices and arrays are
// flattened for array and iterable shapes; an Arg is returned as is.
func ArgAs(t ArgType, v any) (Arg, error) {
	if a, ok := v.(Arg); ok {
		return a, nil
	}
	switch t.Shape {
	case ShapeVoid:
		return NoArg(), nil
	case ShapeValue:
		return One(v), nil
	case ShapeArray, ShapeIterable:
		if seq, ok := v.(iter.Seq[any]); ok {
			if t.Shape == ShapeArray {
				return Many(slices.Collect(seq)...), nil
			}
			return Seq(seq), nil
		}
		elems, ok := flatten(v)
		if !ok {
			got := ShapeValue
			if v == nil {
				got = ShapeVoid
			}
			return Arg{}, &ShapeError{Formatter: "ArgAs", Want: t.Shape.String(), Got: got}
		}
		if t.Shape == ShapeArray {
			return Arg{shape: ShapeArray, values: elems}, nil
		}
		return Seq(slices.Values(elems)), nil
	}
	return Arg{}, fmt.Errorf("%w: unknown shape %s", ErrArgumentShape, t.Shape)
}

func flatten(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if vs, ok := v.([]any); ok {
		return slices.Clone(vs), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
