package i18n

import (
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"transkey/internal/ports/output"
)

// Ensure Catalog implements the output.MessageLookup port.
var _ output.MessageLookup = (*Catalog)(nil)

// Catalog is a message store backed by go-i18n message files
// (active.en.toml, fr.json, ...). The locale of a file comes from its name.
type Catalog struct {
	name   string
	logger *zap.Logger

	mu       sync.RWMutex
	bundle   *i18n.Bundle
	messages map[string]map[string]string
}

// NewCatalog builds an empty catalog. name describes the catalog in
// missing-translation errors.
func NewCatalog(name string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	bundle := i18n.NewBundle(language.Und)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return &Catalog{
		name:     name,
		logger:   logger,
		bundle:   bundle,
		messages: make(map[string]map[string]string),
	}
}

// LoadDir loads every .toml and .json message file in dir.
func LoadDir(dir string, logger *zap.Logger) (*Catalog, error) {
	c := NewCatalog(dir, logger)
	fsys := os.DirFS(dir)
	for _, pattern := range []string{"*.toml", "*.json"} {
		if _, err := c.LoadFS(fsys, pattern); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadFS loads the message files of fsys matching pattern and returns how many
// were loaded. A file that fails to parse is logged and skipped.
func (c *Catalog) LoadFS(fsys fs.FS, pattern string) (int, error) {
	files, err := fs.Glob(fsys, pattern)
	if err != nil {
		return 0, fmt.Errorf("glob %s: %w", pattern, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	loaded := 0
	for _, file := range files {
		mf, err := c.bundle.LoadMessageFileFS(fsys, file)
		if err != nil {
			c.logger.Warn("i18n: failed to load message file", zap.String("file", file), zap.Error(err))
			continue
		}
		for _, m := range mf.Messages {
			c.index(mf.Tag, m.ID, m.Other)
		}
		loaded++
		c.logger.Debug("i18n: message file loaded",
			zap.String("file", path.Base(file)),
			zap.Stringer("locale", mf.Tag),
			zap.Int("messages", len(mf.Messages)),
		)
	}
	return loaded, nil
}

// Add stores a single message.
func (c *Catalog) Add(locale language.Tag, key, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.bundle.AddMessages(locale, &i18n.Message{ID: key, Other: msg}); err != nil {
		return fmt.Errorf("add %s:%s: %w", locale, key, err)
	}
	c.index(locale, key, msg)
	return nil
}

func (c *Catalog) index(locale language.Tag, key, msg string) {
	byKey, ok := c.messages[locale.String()]
	if !ok {
		byKey = make(map[string]string)
		c.messages[locale.String()] = byKey
	}
	byKey[key] = msg
}

// Find returns the message for key at locale, walking up the locale's parents
// (en-US, then en). It never falls back to an unrelated language.
func (c *Catalog) Find(key string, locale language.Tag) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for tag := locale; ; tag = tag.Parent() {
		if msg, ok := c.messages[tag.String()][key]; ok {
			return msg, true, nil
		}
		if tag.IsRoot() {
			return "", false, nil
		}
	}
}

// Locales returns the locales that have at least one message, sorted.
func (c *Catalog) Locales() []language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.messages))
	for name := range c.messages {
		names = append(names, name)
	}
	slices.Sort(names)

	tags := make([]language.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, language.Make(name))
	}
	return tags
}

// Messages returns a copy of the messages stored for exactly locale.
func (c *Catalog) Messages(locale language.Tag) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.messages[locale.String()])
}

func (c *Catalog) String() string { return "catalog " + c.name }
