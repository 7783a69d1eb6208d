package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"transkey/internal/domain"
)

type segment struct {
	text  string
	index int // -1 for literal text
}

// Template is a positional message: "{0} and {1}". A pair of single quotes
// renders one quote, and text between single quotes is literal, so '{0}' is
// not a placeholder. Placeholders whose index has no argument render as
// written.
type Template struct {
	pattern      string
	segments     []segment
	placeholders int
}

func NewTemplate(pattern string) *Template {
	t := &Template{pattern: pattern, segments: parseTemplate(pattern)}
	for _, s := range t.segments {
		if s.index >= 0 {
			t.placeholders++
		}
	}
	return t
}

func (t *Template) Pattern() string { return t.pattern }

func (t *Template) Placeholders() int { return t.placeholders }

// Format expands arg into positional values. Translatable values and requests
// are translated at locale; other values are printed with the locale's number
// formatting.
func (t *Template) Format(arg domain.Arg, locale language.Tag, tr domain.Translation[string]) (string, error) {
	var args []any
	switch arg.Shape() {
	case domain.ShapeArray, domain.ShapeIterable:
		args, _ = arg.Values()
	case domain.ShapeVoid:
		if t.placeholders > 0 {
			return "", &domain.ShapeError{Formatter: "Template", Want: domain.ShapeArray.String(), Got: domain.ShapeVoid}
		}
	default:
		return "", &domain.ShapeError{Formatter: "Template", Want: domain.ShapeArray.String(), Got: arg.Shape()}
	}

	p := message.NewPrinter(locale)
	var b strings.Builder
	for _, s := range t.segments {
		if s.index < 0 {
			b.WriteString(s.text)
			continue
		}
		if s.index >= len(args) {
			b.WriteString("{" + strconv.Itoa(s.index) + "}")
			continue
		}
		out, err := render(p, args[s.index], locale, tr)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func render(p *message.Printer, v any, locale language.Tag, tr domain.Translation[string]) (string, error) {
	switch x := v.(type) {
	case domain.Request, domain.Translatable:
		return tr.TranslateValue(locale, x)
	case string:
		return x, nil
	default:
		return p.Sprintf("%v", x), nil
	}
}

// Accepts holds for array and iterable arguments, and for no argument when the
// template has no placeholders.
func (t *Template) Accepts(at domain.ArgType) bool {
	switch at.Shape {
	case domain.ShapeArray, domain.ShapeIterable:
		return true
	case domain.ShapeVoid:
		return t.placeholders == 0
	default:
		return false
	}
}

func parseTemplate(pattern string) []segment {
	var (
		segs    []segment
		lit     strings.Builder
		inQuote bool
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{text: lit.String(), index: -1})
			lit.Reset()
		}
	}
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\'':
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				lit.WriteByte('\'')
				i++
				continue
			}
			inQuote = !inQuote
		case inQuote:
			lit.WriteByte(c)
		case c == '{':
			end := strings.IndexByte(pattern[i+1:], '}')
			if n, ok := index(pattern[i+1 : i+1+max(end, 0)]); end > 0 && ok {
				flush()
				segs = append(segs, segment{index: n})
				i += end + 1
				continue
			}
			lit.WriteByte(c)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return segs
}

func index(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
