package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/text/language"

	"transkey/internal/application"
	"transkey/internal/domain"
	"transkey/internal/format"
	"transkey/internal/infrastructure/observability"
	"transkey/internal/registry"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		locale   string
		fallback string
	)
	cmd := &cobra.Command{
		Use:   "render KEY [ARG...]",
		Short: "Render the message stored under KEY with positional arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := a.cfg.DefaultLocale
			if locale != "" {
				var err error
				if tag, err = language.Parse(locale); err != nil {
					return fmt.Errorf("invalid locale %q: %w", locale, err)
				}
			}

			lookup, release, err := a.lookup(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			tracer, err := observability.NewTracer(otel.GetTracerProvider(), otel.GetMeterProvider())
			if err != nil {
				return err
			}
			keys := application.NewKeyToString(registry.New())
			tr := application.NewTranslator[string](keys,
				application.NewComposedSource[string](keys, lookup, format.FromMessage),
				application.WithDefaultLocale(a.cfg.DefaultLocale),
				application.WithLogger(a.logger),
				application.WithObserver(tracer),
			)

			values := make([]any, 0, len(args)-1)
			for _, v := range args[1:] {
				values = append(values, v)
			}
			req := domain.NewRequest(domain.OpaqueKey{Name: args[0]}, domain.Many(values...))
			if cmd.Flags().Changed("fallback") {
				req = req.WithFallback(fallback)
			}

			out, err := tr.TranslateValue(tag, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "locale to render in (default TRANSKEY_DEFAULT_LOCALE)")
	cmd.Flags().StringVar(&fallback, "fallback", "", "message used when KEY has no translation")
	return cmd
}
