package format

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/template"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"transkey/internal/domain"
)

const namedMessageID = "transkey.named"

// namedBundle carries no messages; every Named formatter localizes its own
// message as the default message of a go-i18n Localizer.
var namedBundle = i18n.NewBundle(language.English)

// Named renders a go-i18n message ("Hello {{.Name}}") with the argument value
// as template data.
type Named struct {
	message *i18n.Message
	actions bool
	// fields resolves the message strictly so an argument lacking one of its
	// fields is rejected instead of rendering "<no value>". Nil when the
	// message does not parse; go-i18n then reports the syntax error.
	fields *template.Template
}

func NewNamed(msg string) *Named {
	n := &Named{
		message: &i18n.Message{ID: namedMessageID, Other: msg},
		actions: strings.Contains(msg, "{{"),
	}
	if n.actions {
		if t, err := template.New(namedMessageID).Option("missingkey=error").Parse(msg); err == nil {
			n.fields = t
		}
	}
	return n
}

func (n *Named) Message() string { return n.message.Other }

func (n *Named) Format(arg domain.Arg, locale language.Tag, _ domain.Translation[string]) (string, error) {
	var data any
	switch arg.Shape() {
	case domain.ShapeValue:
		data, _ = arg.Value()
	case domain.ShapeVoid:
		if n.actions {
			return "", &domain.ShapeError{Formatter: "Named", Want: domain.ShapeValue.String(), Got: domain.ShapeVoid}
		}
	default:
		return "", &domain.ShapeError{Formatter: "Named", Want: domain.ShapeValue.String(), Got: arg.Shape()}
	}
	if n.fields != nil {
		if err := n.fields.Execute(io.Discard, data); err != nil {
			return "", fmt.Errorf("%w: %v", &domain.ShapeError{Formatter: "Named", Want: "value with every message field", Got: arg.Shape()}, err)
		}
	}

	loc := i18n.NewLocalizer(namedBundle, locale.String())
	out, err := loc.Localize(&i18n.LocalizeConfig{DefaultMessage: n.message, TemplateData: data})
	var notFound *i18n.MessageNotFoundErr
	if err != nil && !errors.As(err, &notFound) {
		return "", err
	}
	return out, nil
}

// Accepts holds for values that text/template can index by name, and for no
// argument when the message has no actions.
func (n *Named) Accepts(t domain.ArgType) bool {
	switch t.Shape {
	case domain.ShapeVoid:
		return !n.actions
	case domain.ShapeValue:
		if t.Elem == nil {
			return false
		}
		e := t.Elem
		if e.Kind() == reflect.Pointer {
			e = e.Elem()
		}
		return e.Kind() == reflect.Struct || e.Kind() == reflect.Map
	default:
		return false
	}
}
