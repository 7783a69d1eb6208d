package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"transkey/internal/config"
	"transkey/internal/infrastructure/database"
	"transkey/internal/infrastructure/i18n"
	"transkey/internal/ports/output"
	"transkey/pkg/logger"
)

// errFindings is returned when verification completed with findings.
var errFindings = errors.New("verification failed")

// app carries what every command needs once flags and environment are merged.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	flags struct {
		locales     []string
		source      string
		dir         string
		manifest    string
		scope       string
		parallelism int
		webhook     string
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "transkey",
		Short:         "Verify and render type-keyed translations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringSliceVar(&a.flags.locales, "locales", nil, "locales to check (overrides TRANSKEY_LOCALES)")
	pf.StringVar(&a.flags.source, "source", "", "message source: files or postgres")
	pf.StringVar(&a.flags.dir, "dir", "", "directory of message files")
	pf.StringVar(&a.flags.manifest, "manifest", "", "TOML key manifest")
	pf.StringVar(&a.flags.scope, "scope", "", "package scope of the keys to verify")
	pf.IntVar(&a.flags.parallelism, "parallelism", 0, "concurrent verification workers")
	pf.StringVar(&a.flags.webhook, "webhook", "", "Discord webhook receiving the verification report")

	root.AddCommand(newVerifyCmd(a), newRenderCmd(a), newImportCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("locales") {
		if cfg.Locales, err = config.ParseLocales(a.flags.locales); err != nil {
			return err
		}
	}
	if flags.Changed("source") {
		cfg.Source = a.flags.source
	}
	if flags.Changed("dir") {
		cfg.MessagesDir = a.flags.dir
	}
	if flags.Changed("manifest") {
		cfg.Manifest = a.flags.manifest
	}
	if flags.Changed("scope") {
		cfg.Scope = a.flags.scope
	}
	if flags.Changed("parallelism") {
		cfg.Parallelism = a.flags.parallelism
	}
	if flags.Changed("webhook") {
		cfg.DiscordWebhookURL = a.flags.webhook
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger.Must(cfg.Environment)
	return nil
}

// lookup opens the configured message source. The returned func releases it.
func (a *app) lookup(ctx context.Context) (output.MessageLookup, func(), error) {
	switch a.cfg.Source {
	case config.SourcePostgres:
		repo, closeFn, err := a.repository(ctx)
		if err != nil {
			return nil, nil, err
		}
		return repo.Lookup(a.cfg.LookupTimeout), closeFn, nil
	default:
		catalog, err := i18n.LoadDir(a.cfg.MessagesDir, a.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("load messages: %w", err)
		}
		return catalog, func() {}, nil
	}
}

func (a *app) repository(ctx context.Context) (*database.MessageRepository, func(), error) {
	if a.cfg.DatabaseURL == "" {
		return nil, nil, errors.New("DATABASE_URL is required")
	}
	pool, err := database.NewPool(ctx, a.cfg.DatabaseURL, a.logger)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(a.cfg.DatabaseURL, a.logger); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return database.NewMessageRepository(pool), pool.Close, nil
}
