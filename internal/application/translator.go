package application

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"transkey/internal/domain"
	"transkey/internal/ports/input"
	"transkey/internal/ports/output"
)

var (
	_ input.TranslateUseCase[string] = (*Translator[string])(nil)
	_ domain.Translation[string]     = (*Translator[string])(nil)
)

// Translator renders keys and translatable values into R. A Translator is
// immutable; BindLocale and WithLocale return new translators.
type Translator[R any] struct {
	keys     domain.KeyStringer
	source   FormatterSource[R]
	locale   func() language.Tag
	logger   *zap.Logger
	observer output.Observer
}

func NewTranslator[R any](keys domain.KeyStringer, source FormatterSource[R], opts ...Option) *Translator[R] {
	s := newSettings(opts)
	return &Translator[R]{
		keys:     keys,
		source:   source,
		locale:   s.locale,
		logger:   s.logger,
		observer: s.observer,
	}
}

func (t *Translator[R]) DefaultLocale() language.Tag { return t.locale() }

// BindLocale returns a translator whose default locale is read from supplier
// on every call. t keeps its own default.
func (t *Translator[R]) BindLocale(supplier func() language.Tag) *Translator[R] {
	bound := *t
	bound.locale = supplier
	return &bound
}

// WithLocale returns a translator whose default locale is tag.
func (t *Translator[R]) WithLocale(tag language.Tag) *Translator[R] {
	return t.BindLocale(func() language.Tag { return tag })
}

// T translates key at the default locale.
func (t *Translator[R]) T(key domain.TranslationKey, arg domain.Arg) (R, error) {
	return t.Translate(language.Und, key, arg)
}

// V translates v at the default locale.
func (t *Translator[R]) V(v any) (R, error) {
	return t.TranslateValue(language.Und, v)
}

// Translate renders key with arg. language.Und selects the default locale.
func (t *Translator[R]) Translate(locale language.Tag, key domain.TranslationKey, arg domain.Arg) (R, error) {
	start := time.Now()
	locale = t.resolve(locale)
	r, ks, err := t.translate(locale, key, arg)
	t.observe(locale, ks, start, false, err)
	return r, err
}

// TranslateValue renders a request, a translatable value, a bare key or, for
// anything else, the value's string form looked up as an opaque key with
// itself as fallback.
func (t *Translator[R]) TranslateValue(locale language.Tag, v any) (R, error) {
	switch x := v.(type) {
	case domain.Request:
		return t.translateRequest(locale, x)
	case *domain.Request:
		if x != nil {
			return t.translateRequest(locale, *x)
		}
	case domain.Translatable:
		arg := domain.One(x)
		if p, ok := x.(domain.ArgProvider); ok {
			arg = p.TranslationArg()
		}
		return t.Translate(locale, x.TranslationKey(), arg)
	case domain.TranslationKey:
		return t.Translate(locale, x, domain.NoArg())
	}
	return t.translateRequest(locale, domain.OpaqueRequest(v))
}

func (t *Translator[R]) translateRequest(locale language.Tag, req domain.Request) (R, error) {
	start := time.Now()
	locale = t.resolve(locale)
	r, ks, err := t.translate(locale, req.Key, req.Arg)

	var missing *domain.MissingTranslationError
	if !req.HasFallback || !errors.As(err, &missing) || missing.Key != ks || missing.Locale != locale {
		t.observe(locale, ks, start, false, err)
		return r, err
	}

	t.logger.Debug("translation fallback",
		zap.String("key", ks),
		zap.Stringer("locale", locale),
	)
	r, err = t.fallback(locale, ks, req)
	t.observe(locale, ks, start, true, err)
	return r, err
}

// fallback renders the request's fallback message. A fallback without an
// argument is used verbatim when R is a string.
func (t *Translator[R]) fallback(locale language.Tag, ks string, req domain.Request) (R, error) {
	var zero R
	if req.Arg.Shape() == domain.ShapeVoid {
		if r, ok := any(req.Fallback).(R); ok {
			return r, nil
		}
	}
	if mf, ok := t.source.(MessageFormatter[R]); ok {
		f, err := mf.FromMessage(req.Fallback, locale)
		if err != nil {
			return zero, err
		}
		return f.Format(req.Arg, locale, t)
	}
	if r, ok := any(req.Fallback).(R); ok {
		return r, nil
	}
	return zero, &domain.MissingTranslationError{Locale: locale, Key: ks, Source: t.source.String()}
}

func (t *Translator[R]) translate(locale language.Tag, key domain.TranslationKey, arg domain.Arg) (R, string, error) {
	var zero R
	ks, err := t.keys.KeyString(key)
	if err != nil {
		return zero, ks, err
	}
	f, ok, err := t.source.FormatterOf(locale, key)
	if err != nil {
		return zero, ks, err
	}
	if !ok {
		return zero, ks, &domain.MissingTranslationError{Locale: locale, Key: ks, Source: t.source.String()}
	}
	r, err := f.Format(arg, locale, t)
	return r, ks, err
}

func (t *Translator[R]) resolve(locale language.Tag) language.Tag {
	if locale == language.Und {
		return t.locale()
	}
	return locale
}

func (t *Translator[R]) observe(locale language.Tag, key string, start time.Time, fallback bool, err error) {
	if t.observer == nil {
		return
	}
	t.observer.TranslationDone(output.TranslationEvent{
		Locale:   locale,
		Key:      key,
		Start:    start,
		Duration: time.Since(start),
		Fallback: fallback,
		Err:      err,
	})
}
