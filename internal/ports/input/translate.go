package input

import (
	"golang.org/x/text/language"

	"transkey/internal/domain"
)

type TranslateUseCase[R any] interface {
	Translate(locale language.Tag, key domain.TranslationKey, arg domain.Arg) (R, error)
	TranslateValue(locale language.Tag, v any) (R, error)
	T(key domain.TranslationKey, arg domain.Arg) (R, error)
	V(v any) (R, error)
	DefaultLocale() language.Tag
}
