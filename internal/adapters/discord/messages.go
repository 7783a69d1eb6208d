package discord

import (
	"embed"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"transkey/internal/application"
	"transkey/internal/domain"
	"transkey/internal/format"
	"transkey/internal/infrastructure/i18n"
	"transkey/internal/registry"
)

//go:embed active.*.toml
var localeFS embed.FS

const pkgPath = "transkey/internal/adapters/discord"

// Keys of the report's own messages.
var (
	types = registry.New()

	reportKeys    = types.Enum(pkgPath, "ReportKey", domain.ArrayOf[any](), registry.WithValue("report"))
	titleOK       = reportKeys.Key("TITLE_OK")
	titleFailed   = reportKeys.Key("TITLE_FAILED")
	titleError    = reportKeys.Key("TITLE_ERROR")
	summary       = reportKeys.Key("SUMMARY")
	fieldMissing  = reportKeys.Key("FIELD_MISSING")
	fieldMismatch = reportKeys.Key("FIELD_MISMATCH")
	missingLine   = reportKeys.Key("MISSING")
	mismatchLine  = reportKeys.Key("MISMATCH")
	more          = reportKeys.Key("MORE")
	footer        = reportKeys.Key("FOOTER")

	errorKeys   = types.Enum(pkgPath, "ErrorKey", domain.ArrayOf[any](), registry.WithValue("error"))
	errorByCode = map[string]domain.EnumKey{
		"broken_discriminant":  errorKeys.Key("BROKEN_DISCRIMINANT"),
		"malformed_key":        errorKeys.Key("MALFORMED_KEY"),
		"missing_translation":  errorKeys.Key("MISSING_TRANSLATION"),
		"argument_shape":       errorKeys.Key("ARGUMENT_SHAPE"),
		"discovery_failed":     errorKeys.Key("DISCOVERY_FAILED"),
		"invalid_registration": errorKeys.Key("INVALID_REGISTRATION"),
	}
	errorUnknown = errorKeys.Key("UNKNOWN")
)

// errorKey maps a domain error to the key of its user-facing message.
func errorKey(err error) domain.EnumKey {
	if key, ok := errorByCode[domain.Code(err)]; ok {
		return key
	}
	return errorUnknown
}

func newCatalog(logger *zap.Logger) (*i18n.Catalog, error) {
	catalog := i18n.NewCatalog("discord report", logger)
	if _, err := catalog.LoadFS(localeFS, "active.*.toml"); err != nil {
		return nil, err
	}
	return catalog, nil
}

func newTranslator(locale language.Tag, logger *zap.Logger) (*application.Translator[string], *application.ComposedSource[string], error) {
	catalog, err := newCatalog(logger)
	if err != nil {
		return nil, nil, err
	}
	keys := application.NewKeyToString(types)
	source := application.NewComposedSource[string](keys, catalog, format.FromMessage)
	tr := application.NewTranslator[string](keys, source,
		application.WithDefaultLocale(locale),
		application.WithLogger(logger),
	)
	return tr, source, nil
}

// SelfCheck verifies the report's own messages at the given locales.
func SelfCheck(locales []language.Tag, logger *zap.Logger) (*domain.Report, error) {
	_, source, err := newTranslator(language.English, logger)
	if err != nil {
		return nil, err
	}
	keys := application.NewKeyToString(types)
	return application.NewVerifier[string](keys, source, application.WithLogger(logger)).
		Verify(types, pkgPath, locales)
}
