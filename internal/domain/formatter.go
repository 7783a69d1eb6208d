package domain

import "golang.org/x/text/language"

// Translation is the view of a translator handed to formatters so that they
// can translate nested keys and values at the ambient locale.
type Translation[R any] interface {
	Translate(locale language.Tag, key TranslationKey, arg Arg) (R, error)
	TranslateValue(locale language.Tag, v any) (R, error)
}

// Formatter renders an argument into R. Format must not mutate shared state
// and Accepts must be answerable without calling Format.
type Formatter[R any] interface {
	Format(arg Arg, locale language.Tag, t Translation[R]) (R, error)
	Accepts(t ArgType) bool
}

// FormatterFunc adapts a function to a Formatter that accepts every ArgType.
type FormatterFunc[R any] func(arg Arg, locale language.Tag, t Translation[R]) (R, error)

func (f FormatterFunc[R]) Format(arg Arg, locale language.Tag, t Translation[R]) (R, error) {
	return f(arg, locale, t)
}

func (f FormatterFunc[R]) Accepts(ArgType) bool { return true }

// KeyStringer turns a key into its canonical lookup string.
type KeyStringer interface {
	KeyString(key TranslationKey) (string, error)
}
