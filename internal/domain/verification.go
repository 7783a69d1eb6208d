package domain

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// FindingKind classifies a verification failure.
type FindingKind int

const (
	MissingFormatter FindingKind = iota + 1
	TypeMismatch
)

func (k FindingKind) String() string {
	switch k {
	case MissingFormatter:
		return "missing_formatter"
	case TypeMismatch:
		return "type_mismatch"
	default:
		return fmt.Sprintf("FindingKind(%d)", int(k))
	}
}

// Finding is one (locale, key) pair that failed verification.
type Finding struct {
	Kind      FindingKind
	Locale    language.Tag
	Key       TranslationKey
	KeyString string
	ArgType   ArgType
	Formatter string
}

func (f Finding) Error() string {
	switch f.Kind {
	case MissingFormatter:
		return fmt.Sprintf("%s:%s: no formatter", f.Locale, f.KeyString)
	default:
		return fmt.Sprintf("%s:%s: %s does not accept %s", f.Locale, f.KeyString, f.Formatter, f.ArgType)
	}
}

// Report is the outcome of a verification run.
type Report struct {
	Findings []Finding
	Checked  int
}

func (r *Report) OK() bool { return len(r.Findings) == 0 }

func (r *Report) Missing() []Finding { return r.filter(MissingFormatter) }

func (r *Report) Mismatches() []Finding { return r.filter(TypeMismatch) }

func (r *Report) filter(kind FindingKind) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Err joins every finding into one error, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Findings))
	for _, f := range r.Findings {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}
