package application

import (
	"fmt"
	"strings"

	"transkey/internal/domain"
	"transkey/internal/ports/output"
)

var _ domain.KeyStringer = (*KeyToString)(nil)

// KeyToString derives canonical lookup strings from structured keys.
type KeyToString struct {
	types output.TypeIntrospector
}

func NewKeyToString(types output.TypeIntrospector) *KeyToString {
	return &KeyToString{types: types}
}

// KeyString returns the canonical string of key. The type part comes from the
// nearest override in the owning type's supertype lattice (breadth first,
// interfaces before the superclass), or from the canonical type name when no
// type carries one. Enum discriminants are appended lower-cased unless they
// carry their own override.
func (k *KeyToString) KeyString(key domain.TranslationKey) (string, error) {
	switch key := key.(type) {
	case domain.OpaqueKey:
		return key.Name, nil
	case domain.ClassKey:
		info, err := k.describe(key.Owner(), key)
		if err != nil {
			return "", err
		}
		return k.base(info), nil
	case domain.EnumKey:
		info, err := k.describe(key.Owner(), key)
		if err != nil {
			return "", err
		}
		d, ok := k.types.Discriminant(info.ID, key.Name())
		if !ok {
			return "", fmt.Errorf("%w: %s has no discriminant %q", domain.ErrBrokenDiscriminant, info.Canonical(), key.Name())
		}
		suffix := strings.ToLower(d.Name)
		if d.Override != nil && strings.TrimSpace(d.Override.Value) != "" {
			suffix = d.Override.Value
		}
		return k.base(info) + "." + suffix, nil
	default:
		return "", fmt.Errorf("%w: unsupported key %T", domain.ErrMalformedKey, key)
	}
}

func (k *KeyToString) describe(id domain.TypeID, key domain.TranslationKey) (domain.TypeInfo, error) {
	info, ok := k.types.Describe(id)
	if !ok {
		return domain.TypeInfo{}, fmt.Errorf("%w: %v has no registered owner", domain.ErrMalformedKey, key)
	}
	return info, nil
}

func (k *KeyToString) base(owner domain.TypeInfo) string {
	o := k.findOverride(owner)
	switch {
	case o == nil:
		return owner.Canonical()
	case strings.TrimSpace(o.Value) != "":
		return o.Value
	case strings.TrimSpace(o.Prefix) != "":
		return o.Prefix + "." + owner.Name
	default:
		return owner.Canonical()
	}
}

func (k *KeyToString) findOverride(owner domain.TypeInfo) *domain.Override {
	visited := map[domain.TypeID]bool{owner.ID: true}
	queue := []domain.TypeInfo{owner}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Override != nil {
			return cur.Override
		}
		next := append(cur.Interfaces[:len(cur.Interfaces):len(cur.Interfaces)], cur.Super)
		for _, id := range next {
			if id == domain.NoType || visited[id] {
				continue
			}
			visited[id] = true
			if info, ok := k.types.Describe(id); ok {
				queue = append(queue, info)
			}
		}
	}
	return nil
}
