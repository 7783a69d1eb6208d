package application

import (
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"transkey/internal/ports/output"
)

type settings struct {
	locale      func() language.Tag
	logger      *zap.Logger
	observer    output.Observer
	parallelism int
}

func newSettings(opts []Option) settings {
	s := settings{
		locale:      func() language.Tag { return language.English },
		logger:      zap.NewNop(),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a Translator or a Verifier.
type Option func(*settings)

// WithDefaultLocale sets the locale used when callers pass language.Und.
func WithDefaultLocale(tag language.Tag) Option {
	return func(s *settings) { s.locale = func() language.Tag { return tag } }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver reports every Translate call to o.
func WithObserver(o output.Observer) Option {
	return func(s *settings) { s.observer = o }
}

// WithParallelism bounds the number of cells a Verifier checks at once.
func WithParallelism(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.parallelism = n
		}
	}
}
