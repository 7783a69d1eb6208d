// Package format implements the formatter algebra: constant, composed,
// collecting and template formatters. Every formatter answers Accepts without
// rendering anything, which is what the verifier relies on.
package format

import (
	"golang.org/x/text/language"

	"transkey/internal/domain"
)

// Const always renders the same value.
type Const[R any] struct {
	value R
}

func NewConst[R any](value R) Const[R] {
	return Const[R]{value: value}
}

func (c Const[R]) Format(domain.Arg, language.Tag, domain.Translation[R]) (R, error) {
	return c.value, nil
}

func (Const[R]) Accepts(domain.ArgType) bool { return true }

func (c Const[R]) Value() R { return c.value }
