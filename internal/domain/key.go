package domain

import "fmt"

// TypeID indexes a type descriptor in a type table.
type TypeID int

// NoType terminates supertype chains.
const NoType TypeID = -1

// Kind is the role a registered type plays in the key model.
type Kind int

const (
	KindInterface Kind = iota
	KindClass
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Override redirects canonical key string computation. Value replaces the
// whole type part of the key string, Prefix replaces the package part.
// On a discriminant only Value is meaningful.
type Override struct {
	Value  string
	Prefix string
}

// TypeInfo describes one node of the type lattice.
type TypeInfo struct {
	ID         TypeID
	Package    string
	Name       string
	Kind       Kind
	Interfaces []TypeID
	Super      TypeID
	Override   *Override
	Arg        ArgType
}

// Canonical returns the fully qualified type name.
func (t TypeInfo) Canonical() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// Discriminant is a named variant of an enumerated key family.
type Discriminant struct {
	Name     string
	Override *Override
}

// TranslationKey is a structured identifier for a piece of user-facing text.
// EnumKey, ClassKey and OpaqueKey are the supported implementations.
type TranslationKey interface {
	ArgType() ArgType
}

// EnumKey is one discriminant of an enumerated key family.
type EnumKey struct {
	owner TypeID
	name  string
	arg   ArgType
}

// NewEnumKey builds an EnumKey without consulting a type table. Keys should
// normally come from a registered family.
func NewEnumKey(owner TypeID, name string, arg ArgType) EnumKey {
	return EnumKey{owner: owner, name: name, arg: arg}
}

func (k EnumKey) Owner() TypeID { return k.owner }
func (k EnumKey) Name() string { return k.name }
func (k EnumKey) ArgType() ArgType { return k.arg }
func (k EnumKey) String() string { return fmt.Sprintf("EnumKey(%d.%s)", k.owner, k.name) }

// ClassKey is the key of a translatable type; the argument is an instance of
// that type.
type ClassKey struct {
	owner TypeID
	arg   ArgType
}

func NewClassKey(owner TypeID, arg ArgType) ClassKey {
	return ClassKey{owner: owner, arg: arg}
}

func (k ClassKey) Owner() TypeID { return k.owner }
func (k ClassKey) ArgType() ArgType { return k.arg }
func (k ClassKey) String() string { return fmt.Sprintf("ClassKey(%d)", k.owner) }

// OpaqueKey wraps the string form of an arbitrary value.
type OpaqueKey struct {
	Name string
}

func (OpaqueKey) ArgType() ArgType { return AnyOf(ShapeArray) }

// Translatable values know their own key and are their own argument.
type Translatable interface {
	TranslationKey() TranslationKey
}

// ArgProvider may be implemented by a Translatable that supplies a different
// argument than itself.
type ArgProvider interface {
	TranslationArg() Arg
}

// Request is a key and argument pair with an optional fallback message used
// when the key has no translation.
type Request struct {
	Key         TranslationKey
	Arg         Arg
	Fallback    string
	HasFallback bool
}

func NewRequest(key TranslationKey, arg Arg) Request {
	return Request{Key: key, Arg: arg}
}

// WithFallback returns a copy of r that falls back to msg.
func (r Request) WithFallback(msg string) Request {
	r.Fallback = msg
	r.HasFallback = true
	return r
}

// OpaqueRequest is the request synthesized for a value that is neither a
// Request nor Translatable: the value's string form is both key and fallback.
func OpaqueRequest(v any) Request {
	s := fmt.Sprint(v)
	return NewRequest(OpaqueKey{Name: s}, NoArg()).WithFallback(s)
}
