package format

import (
	"strings"

	"golang.org/x/text/language"

	"transkey/internal/domain"
)

// Collecting applies every sub-formatter to the same argument, in order, and
// folds the results with combine.
type Collecting[R any] struct {
	combine func([]R) R
	subs    []domain.Formatter[R]
}

func Collect[R any](combine func([]R) R, subs ...domain.Formatter[R]) Collecting[R] {
	return Collecting[R]{combine: combine, subs: subs}
}

// Concat joins the sub-formatter results without a separator.
func Concat(subs ...domain.Formatter[string]) Collecting[string] {
	return Joining("", subs...)
}

// Joining joins the sub-formatter results with sep.
func Joining(sep string, subs ...domain.Formatter[string]) Collecting[string] {
	return Collect(func(parts []string) string { return strings.Join(parts, sep) }, subs...)
}

func (c Collecting[R]) Format(arg domain.Arg, locale language.Tag, t domain.Translation[R]) (R, error) {
	parts := make([]R, 0, len(c.subs))
	for _, sub := range c.subs {
		r, err := sub.Format(arg, locale, t)
		if err != nil {
			var zero R
			return zero, err
		}
		parts = append(parts, r)
	}
	return c.combine(parts), nil
}

// Accepts holds only if every sub-formatter accepts t.
func (c Collecting[R]) Accepts(t domain.ArgType) bool {
	for _, sub := range c.subs {
		if !sub.Accepts(t) {
			return false
		}
	}
	return true
}
