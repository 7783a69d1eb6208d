package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

const (
	SourceFiles    = "files"
	SourcePostgres = "postgres"
)

type Config struct {
	DefaultLocale     language.Tag
	Locales           []language.Tag
	MessagesDir       string
	Manifest          string
	Scope             string
	Source            string
	DatabaseURL       string
	LookupTimeout     time.Duration
	Parallelism       int
	Environment       string
	DiscordWebhookURL string
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	}
	return FromEnv()
}

// FromEnv lit la configuration sans charger de fichier .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		MessagesDir:       getenv("TRANSKEY_MESSAGES_DIR", "./locales"),
		Manifest:          getenv("TRANSKEY_MANIFEST", "./keys.toml"),
		Scope:             os.Getenv("TRANSKEY_SCOPE"),
		Source:            strings.ToLower(getenv("TRANSKEY_SOURCE", SourceFiles)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Environment:       getenv("ENVIRONMENT", "development"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
	}

	var err error
	if cfg.DefaultLocale, err = language.Parse(getenv("TRANSKEY_DEFAULT_LOCALE", "en")); err != nil {
		return nil, fmt.Errorf("config: TRANSKEY_DEFAULT_LOCALE invalide: %w", err)
	}
	if cfg.Locales, err = parseLocales(os.Getenv("TRANSKEY_LOCALES")); err != nil {
		return nil, err
	}
	if cfg.LookupTimeout, err = time.ParseDuration(getenv("TRANSKEY_LOOKUP_TIMEOUT", "2s")); err != nil {
		return nil, fmt.Errorf("config: TRANSKEY_LOOKUP_TIMEOUT invalide: %w", err)
	}
	if cfg.Parallelism, err = strconv.Atoi(getenv("TRANSKEY_PARALLELISM", "1")); err != nil {
		return nil, fmt.Errorf("config: TRANSKEY_PARALLELISM doit être un entier: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate applique toutes les règles métier sur la configuration chargée.
// Elle est rappelée après application des options de la ligne de commande.
func (c *Config) Validate() error {
	if len(c.Locales) == 0 {
		// Sans liste explicite, seule la locale par défaut est vérifiée.
		c.Locales = []language.Tag{c.DefaultLocale}
	}

	switch c.Source {
	case SourceFiles:
		if strings.TrimSpace(c.MessagesDir) == "" {
			return fmt.Errorf("config: TRANSKEY_MESSAGES_DIR est requis avec TRANSKEY_SOURCE=files")
		}
	case SourcePostgres:
		if err := validateDatabaseURL(c.DatabaseURL); err != nil {
			return err
		}
	default:
		return fmt.Errorf("config: TRANSKEY_SOURCE doit valoir %q ou %q (reçu %q)", SourceFiles, SourcePostgres, c.Source)
	}

	if c.LookupTimeout <= 0 {
		return fmt.Errorf("config: TRANSKEY_LOOKUP_TIMEOUT doit être positif")
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("config: TRANSKEY_PARALLELISM doit être supérieur ou égal à 1")
	}

	if c.DiscordWebhookURL != "" {
		parsed, err := url.Parse(c.DiscordWebhookURL)
		if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
			return fmt.Errorf("config: DISCORD_WEBHOOK_URL invalide (%q)", c.DiscordWebhookURL)
		}
	}
	return nil
}

func validateDatabaseURL(dsn string) error {
	if strings.TrimSpace(dsn) == "" {
		return fmt.Errorf("config: DATABASE_URL est requis avec TRANSKEY_SOURCE=postgres")
	}
	parsed, err := url.Parse(dsn)
	if err != nil {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", dsn, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", dsn)
	}
	return nil
}

func parseLocales(raw string) ([]language.Tag, error) {
	return ParseLocales(strings.Split(raw, ","))
}

// ParseLocales convertit une liste de locales, en ignorant les entrées vides.
func ParseLocales(parts []string) ([]language.Tag, error) {
	var tags []language.Tag
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tag, err := language.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("config: TRANSKEY_LOCALES contient une locale invalide %q: %w", part, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
