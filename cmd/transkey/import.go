package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"transkey/internal/infrastructure/i18n"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Copy the message files of --dir into the postgres message store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			catalog, err := i18n.LoadDir(a.cfg.MessagesDir, a.logger)
			if err != nil {
				return fmt.Errorf("load messages: %w", err)
			}
			repo, release, err := a.repository(ctx)
			if err != nil {
				return err
			}
			defer release()

			total := 0
			for _, locale := range catalog.Locales() {
				messages := catalog.Messages(locale)
				keys := slices.Sorted(maps.Keys(messages))
				for _, key := range keys {
					if err := repo.Save(ctx, locale, key, messages[key]); err != nil {
						return err
					}
				}
				total += len(keys)
				a.logger.Info("import: locale stored", zap.Stringer("locale", locale), zap.Int("messages", len(keys)))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d messages imported\n", total)
			return nil
		},
	}
}
