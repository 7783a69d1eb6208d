package output

import "golang.org/x/text/language"

// MessageLookup exposes the raw message store to the translation core.
// Find returns the message stored under the canonical key string for the
// given locale. A missing message is reported as ok == false, not as an
// error; errors are reserved for store failures.
type MessageLookup interface {
	Find(key string, locale language.Tag) (msg string, ok bool, err error)
}

// MessageLookupFunc adapts a function to MessageLookup.
type MessageLookupFunc func(key string, locale language.Tag) (string, bool, error)

func (f MessageLookupFunc) Find(key string, locale language.Tag) (string, bool, error) {
	return f(key, locale)
}
