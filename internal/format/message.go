package format

import (
	"strings"

	"golang.org/x/text/language"

	"transkey/internal/domain"
)

// FromMessage builds the formatter for a stored message. Messages with
// text/template actions become Named formatters, everything else a positional
// Template.
func FromMessage(msg string, _ language.Tag) (domain.Formatter[string], error) {
	if strings.Contains(msg, "{{") {
		return NewNamed(msg), nil
	}
	return NewTemplate(msg), nil
}
