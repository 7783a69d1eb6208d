package format

import (
	"golang.org/x/text/language"

	"transkey/internal/domain"
)

// Continuation renders the value a getter extracted.
type Continuation[R any] func(t domain.Translation[R], locale language.Tag, v any) (R, error)

// Composed extracts a value with a getter and hands it to a continuation. It
// accepts exactly what its getter accepts.
type Composed[R any] struct {
	getter Getter
	next   Continuation[R]
}

func Compose[R any](getter Getter, next Continuation[R]) Composed[R] {
	return Composed[R]{getter: getter, next: next}
}

// ByKey translates key with the extracted value as its argument.
func ByKey[R any](getter Getter, key domain.TranslationKey) Composed[R] {
	return Compose(getter, func(t domain.Translation[R], locale language.Tag, v any) (R, error) {
		arg, err := domain.ArgAs(key.ArgType(), v)
		if err != nil {
			var zero R
			return zero, err
		}
		return t.Translate(locale, key, arg)
	})
}

// ByTranslatable translates the extracted value itself.
func ByTranslatable[R any](getter Getter) Composed[R] {
	return Compose(getter, func(t domain.Translation[R], locale language.Tag, v any) (R, error) {
		return t.TranslateValue(locale, v)
	})
}

func (c Composed[R]) Format(arg domain.Arg, locale language.Tag, t domain.Translation[R]) (R, error) {
	v, err := c.getter.Get(arg)
	if err != nil {
		var zero R
		return zero, err
	}
	return c.next(t, locale, v)
}

func (c Composed[R]) Accepts(t domain.ArgType) bool { return c.getter.Accepts(t) }
