package application

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"transkey/internal/domain"
	"transkey/internal/ports/input"
	"transkey/internal/ports/output"
)

var _ input.VerifyUseCase = (*Verifier[string])(nil)

// Cell is one (locale, key) pair with the formatter the source returned.
type Cell[R any] struct {
	Locale    language.Tag
	Key       domain.TranslationKey
	KeyString string
	Formatter domain.Formatter[R]
	Found     bool
}

// Verifier checks, without rendering anything, that every key has a
// formatter at every locale and that the formatter accepts the key's
// argument type.
type Verifier[R any] struct {
	keys        domain.KeyStringer
	source      FormatterSource[R]
	logger      *zap.Logger
	parallelism int
}

func NewVerifier[R any](keys domain.KeyStringer, source FormatterSource[R], opts ...Option) *Verifier[R] {
	s := newSettings(opts)
	return &Verifier[R]{
		keys:        keys,
		source:      source,
		logger:      s.logger,
		parallelism: s.parallelism,
	}
}

// Verify discovers the keys declared under scope and verifies them. A
// discovery failure is returned as a *domain.DiscoveryError and produces no
// report.
func (v *Verifier[R]) Verify(discovery output.KeyDiscovery, scope string, locales []language.Tag) (*domain.Report, error) {
	keys, err := discovery.Discover(scope)
	if err != nil {
		if errors.Is(err, domain.ErrDiscovery) {
			return nil, err
		}
		return nil, &domain.DiscoveryError{Type: scope, Err: err}
	}
	return v.VerifyKeys(keys, locales)
}

// VerifyKeys verifies keys at every locale. Findings are sorted by key string
// then locale. Opaque keys are skipped.
func (v *Verifier[R]) VerifyKeys(keys []domain.TranslationKey, locales []language.Tag) (*domain.Report, error) {
	cells, err := v.Cells(keys, locales)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{Checked: len(cells)}
	for _, c := range cells {
		switch {
		case !c.Found:
			report.Findings = append(report.Findings, domain.Finding{
				Kind:      domain.MissingFormatter,
				Locale:    c.Locale,
				Key:       c.Key,
				KeyString: c.KeyString,
				ArgType:   c.Key.ArgType(),
			})
		case !c.Formatter.Accepts(c.Key.ArgType()):
			report.Findings = append(report.Findings, domain.Finding{
				Kind:      domain.TypeMismatch,
				Locale:    c.Locale,
				Key:       c.Key,
				KeyString: c.KeyString,
				ArgType:   c.Key.ArgType(),
				Formatter: fmt.Sprintf("%T", c.Formatter),
			})
		}
	}
	slices.SortStableFunc(report.Findings, func(a, b domain.Finding) int {
		return cmp.Or(
			cmp.Compare(a.KeyString, b.KeyString),
			cmp.Compare(a.Locale.String(), b.Locale.String()),
		)
	})

	v.logger.Info("verification finished",
		zap.Int("checked", report.Checked),
		zap.Int("missing", len(report.Missing())),
		zap.Int("mismatches", len(report.Mismatches())),
	)
	return report, nil
}

// Cells looks up the formatter of every (locale, key) pair, in key order then
// locale order.
func (v *Verifier[R]) Cells(keys []domain.TranslationKey, locales []language.Tag) ([]Cell[R], error) {
	keys = slices.DeleteFunc(slices.Clone(keys), func(k domain.TranslationKey) bool {
		_, opaque := k.(domain.OpaqueKey)
		return opaque
	})

	cells := make([]Cell[R], len(keys)*len(locales))
	var g errgroup.Group
	g.SetLimit(v.parallelism)
	for i, key := range keys {
		for j, locale := range locales {
			idx := i*len(locales) + j
			g.Go(func() error {
				c, err := v.cell(locale, key)
				if err != nil {
					return err
				}
				cells[idx] = c
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cells, nil
}

func (v *Verifier[R]) cell(locale language.Tag, key domain.TranslationKey) (Cell[R], error) {
	ks, err := v.keys.KeyString(key)
	if err != nil {
		return Cell[R]{}, err
	}
	f, ok, err := v.source.FormatterOf(locale, key)
	if err != nil {
		return Cell[R]{}, err
	}
	return Cell[R]{Locale: locale, Key: key, KeyString: ks, Formatter: f, Found: ok}, nil
}
