package domain

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Domain errors.
var (
	ErrMalformedKey       = errors.New("malformed translation key")
	ErrBrokenDiscriminant = errors.New("broken enum discriminant")
	ErrMissingTranslation = errors.New("missing translation")
	ErrArgumentShape      = errors.New("argument shape violation")
	ErrDiscovery          = errors.New("key discovery failed")
	ErrRegistration       = errors.New("invalid type registration")
)

// MissingTranslationError is returned when no formatter exists for a (locale, key) pair.
type MissingTranslationError struct {
	Locale language.Tag
	Key    string
	Source string
}

func (e *MissingTranslationError) Error() string {
	return fmt.Sprintf("could not find translation for %s:%s in %q", e.Locale, e.Key, e.Source)
}

func (e *MissingTranslationError) Unwrap() error { return ErrMissingTranslation }

// ShapeError reports an argument a formatter cannot coerce to the shape it needs.
type ShapeError struct {
	Formatter string
	Want      string
	Got       Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: expected %s argument, got %s", e.Formatter, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error { return ErrArgumentShape }

// DiscoveryError identifies the key type whose values could not be enumerated.
type DiscoveryError struct {
	Type string
	Err  error
}

func (e *DiscoveryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("discover keys of %s", e.Type)
	}
	return fmt.Sprintf("discover keys of %s: %v", e.Type, e.Err)
}

func (e *DiscoveryError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDiscovery}
	}
	return []error{ErrDiscovery, e.Err}
}

// Code maps an error to a stable code usable in logs and reports.
// It returns "" for nil or unknown errors.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBrokenDiscriminant):
		return "broken_discriminant"
	case errors.Is(err, ErrMalformedKey):
		return "malformed_key"
	case errors.Is(err, ErrMissingTranslation):
		return "missing_translation"
	case errors.Is(err, ErrArgumentShape):
		return "argument_shape"
	case errors.Is(err, ErrDiscovery):
		return "discovery_failed"
	case errors.Is(err, ErrRegistration):
		return "invalid_registration"
	default:
		return ""
	}
}
