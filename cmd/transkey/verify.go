package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"transkey/internal/adapters/discord"
	"transkey/internal/application"
	"transkey/internal/domain"
	"transkey/internal/format"
	"transkey/internal/registry"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that every key in the manifest has a usable message in every locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.verify(cmd)
		},
	}
}

func (a *app) verify(cmd *cobra.Command) error {
	ctx := cmd.Context()

	reporter, err := a.reporter()
	if err != nil {
		return err
	}

	report, err := a.runVerification(cmd)
	if err != nil {
		if reporter != nil {
			if rerr := reporter.ReportError(ctx, err); rerr != nil {
				a.logger.Warn("verify: could not post failure", zap.Error(rerr))
			}
		}
		return err
	}

	printReport(cmd.OutOrStdout(), report)
	if reporter != nil {
		if err := reporter.Report(ctx, report, a.cfg.Scope); err != nil {
			return err
		}
	}
	if !report.OK() {
		return errFindings
	}
	return nil
}

func (a *app) runVerification(cmd *cobra.Command) (*domain.Report, error) {
	types := registry.New()
	if err := registry.LoadManifestFile(types, a.cfg.Manifest); err != nil {
		return nil, err
	}

	lookup, release, err := a.lookup(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer release()

	keys := application.NewKeyToString(types)
	source := application.NewComposedSource[string](keys, lookup, format.FromMessage)
	verifier := application.NewVerifier[string](keys, source,
		application.WithLogger(a.logger),
		application.WithParallelism(a.cfg.Parallelism),
	)
	return verifier.Verify(types, a.cfg.Scope, a.cfg.Locales)
}

// reporter returns nil when no webhook is configured. The report is written in
// the default locale when the reporter has messages for it, in English
// otherwise.
func (a *app) reporter() (*discord.Reporter, error) {
	if a.cfg.DiscordWebhookURL == "" {
		return nil, nil
	}
	locale := a.cfg.DefaultLocale
	check, err := discord.SelfCheck([]language.Tag{locale}, a.logger)
	if err != nil {
		return nil, err
	}
	if !check.OK() {
		a.logger.Warn("verify: report messages unavailable, using English",
			zap.Stringer("locale", locale),
			zap.Int("missing", len(check.Findings)),
		)
		locale = language.English
	}
	return discord.NewReporter(nil, a.cfg.DiscordWebhookURL, locale, a.logger)
}

func printReport(w io.Writer, report *domain.Report) {
	for _, f := range report.Findings {
		fmt.Fprintf(w, "%-17s %s\n", f.Kind, f.Error())
	}
	fmt.Fprintf(w, "%d checked, %d missing, %d mismatched\n",
		report.Checked, len(report.Missing()), len(report.Mismatches()))
}
