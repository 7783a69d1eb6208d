package output

import (
	"time"

	"golang.org/x/text/language"
)

// TranslationEvent describes one completed Translate call.
type TranslationEvent struct {
	Locale   language.Tag
	Key      string
	Start    time.Time
	Duration time.Duration
	Fallback bool
	Err      error
}

// Observer receives translation events, typically for tracing and metrics.
type Observer interface {
	TranslationDone(ev TranslationEvent)
}
