package application

import (
	"golang.org/x/text/language"

	"transkey/internal/domain"
	"transkey/internal/format"
	"transkey/internal/registry"
)

type Money struct {
	Amount   int
	Currency string
}

type User struct {
	First string
	Last  string
}

func (u User) TranslationKey() domain.TranslationKey { return userKey }

type fullName struct {
	first, last string
}

func (n fullName) TranslationKey() domain.TranslationKey { return greetingKey }

func (n fullName) TranslationArg() domain.Arg { return domain.Many(n.first, n.last) }

var (
	types       = registry.New()
	greeting    = types.Enum("app", "Greeting", domain.ArrayOf[string](), registry.WithValue("app"))
	greetingKey = greeting.Key("GREETING")
	farewellKey = greeting.Key("FAREWELL", registry.WithValue("bye"))
	moneyKey    = registry.ClassOf[Money](types)
	userKey     = registry.ClassOf[User](types, registry.WithPrefix("people"))
)

// memLookup stores messages under "locale:key".
type memLookup map[string]string

func (m memLookup) Find(key string, locale language.Tag) (string, bool, error) {
	msg, ok := m[locale.String()+":"+key]
	return msg, ok, nil
}

func (m memLookup) String() string { return "memory" }

func newStringTranslator(messages memLookup, opts ...Option) *Translator[string] {
	keys := NewKeyToString(types)
	return NewTranslator[string](keys, NewComposedSource(keys, messages, format.FromMessage), opts...)
}
