package input

import (
	"golang.org/x/text/language"

	"transkey/internal/domain"
	"transkey/internal/ports/output"
)

type VerifyUseCase interface {
	Verify(discovery output.KeyDiscovery, scope string, locales []language.Tag) (*domain.Report, error)
	VerifyKeys(keys []domain.TranslationKey, locales []language.Tag) (*domain.Report, error)
}
