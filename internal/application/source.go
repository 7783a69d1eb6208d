package application

import (
	"fmt"

	"golang.org/x/text/language"

	"transkey/internal/domain"
	"transkey/internal/ports/output"
)

// FormatterSource finds the formatter registered for a key at a locale.
// String describes the source in MissingTranslation errors.
type FormatterSource[R any] interface {
	FormatterOf(locale language.Tag, key domain.TranslationKey) (domain.Formatter[R], bool, error)
	String() string
}

// MessageFormatter is implemented by sources that can build a formatter from
// a raw message. The translator uses it to render fallback messages.
type MessageFormatter[R any] interface {
	FromMessage(msg string, locale language.Tag) (domain.Formatter[R], error)
}

// MessageConstructor turns a stored message into a formatter.
type MessageConstructor[R any] func(msg string, locale language.Tag) (domain.Formatter[R], error)

var (
	_ FormatterSource[string]  = (*ComposedSource[string])(nil)
	_ MessageFormatter[string] = (*ComposedSource[string])(nil)
)

// ComposedSource resolves key strings, looks messages up in a message store
// and builds formatters from them.
type ComposedSource[R any] struct {
	keys   domain.KeyStringer
	lookup output.MessageLookup
	build  MessageConstructor[R]
}

func NewComposedSource[R any](keys domain.KeyStringer, lookup output.MessageLookup, build MessageConstructor[R]) *ComposedSource[R] {
	return &ComposedSource[R]{keys: keys, lookup: lookup, build: build}
}

func (s *ComposedSource[R]) FormatterOf(locale language.Tag, key domain.TranslationKey) (domain.Formatter[R], bool, error) {
	ks, err := s.keys.KeyString(key)
	if err != nil {
		return nil, false, err
	}
	msg, ok, err := s.lookup.Find(ks, locale)
	if err != nil {
		return nil, false, fmt.Errorf("lookup %s:%s: %w", locale, ks, err)
	}
	if !ok {
		return nil, false, nil
	}
	f, err := s.build(msg, locale)
	if err != nil {
		return nil, false, fmt.Errorf("build formatter for %s:%s: %w", locale, ks, err)
	}
	return f, true, nil
}

func (s *ComposedSource[R]) FromMessage(msg string, locale language.Tag) (domain.Formatter[R], error) {
	return s.build(msg, locale)
}

func (s *ComposedSource[R]) String() string {
	if st, ok := s.lookup.(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprintf("%T", s.lookup)
}

var _ FormatterSource[string] = (*StaticSource[string])(nil)

// StaticSource holds formatters registered in code. Register everything
// before the source is shared between goroutines.
type StaticSource[R any] struct {
	keys       domain.KeyStringer
	name       string
	formatters map[language.Tag]map[string]domain.Formatter[R]
}

func NewStaticSource[R any](keys domain.KeyStringer, name string) *StaticSource[R] {
	return &StaticSource[R]{
		keys:       keys,
		name:       name,
		formatters: make(map[language.Tag]map[string]domain.Formatter[R]),
	}
}

// Add registers f for key at locale, replacing any previous formatter.
func (s *StaticSource[R]) Add(locale language.Tag, key domain.TranslationKey, f domain.Formatter[R]) error {
	ks, err := s.keys.KeyString(key)
	if err != nil {
		return err
	}
	byKey, ok := s.formatters[locale]
	if !ok {
		byKey = make(map[string]domain.Formatter[R])
		s.formatters[locale] = byKey
	}
	byKey[ks] = f
	return nil
}

func (s *StaticSource[R]) FormatterOf(locale language.Tag, key domain.TranslationKey) (domain.Formatter[R], bool, error) {
	ks, err := s.keys.KeyString(key)
	if err != nil {
		return nil, false, err
	}
	f, ok := s.formatters[locale][ks]
	return f, ok, nil
}

func (s *StaticSource[R]) String() string { return s.name }
