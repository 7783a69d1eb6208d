package discord

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"transkey/internal/application"
	"transkey/internal/domain"
)

const (
	colorOK     = 0x57F287
	colorFailed = 0xED4245

	maxFieldLines = 10
	maxFieldLen   = 1024
	username      = "transkey"
)

var ErrWebhookURL = errors.New("discord: invalid webhook url")

// WebhookExecutor is the part of *discordgo.Session the reporter needs.
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Reporter posts verification outcomes to a Discord webhook, localized with
// the same translation machinery it reports on.
type Reporter struct {
	exec   WebhookExecutor
	id     string
	token  string
	tr     *application.Translator[string]
	logger *zap.Logger
}

// NewReporter builds a reporter for webhookURL. A nil exec uses a fresh
// unauthenticated discordgo session; webhooks carry their own token.
func NewReporter(exec WebhookExecutor, webhookURL string, locale language.Tag, logger *zap.Logger) (*Reporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	if exec == nil {
		s, err := discordgo.New("")
		if err != nil {
			return nil, fmt.Errorf("discord: session: %w", err)
		}
		exec = s
	}
	tr, _, err := newTranslator(locale, logger)
	if err != nil {
		return nil, err
	}
	return &Reporter{exec: exec, id: id, token: token, tr: tr, logger: logger}, nil
}

// ParseWebhookURL splits https://discord.com/api/webhooks/{id}/{token}.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrWebhookURL, err)
	}
	if u.Scheme != "https" {
		return "", "", fmt.Errorf("%w: scheme must be https", ErrWebhookURL)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != "api" || parts[1] != "webhooks" || parts[2] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("%w: expected /api/webhooks/{id}/{token}", ErrWebhookURL)
	}
	return parts[2], parts[3], nil
}

// Embed renders a report as a Discord embed.
func (r *Reporter) Embed(report *domain.Report, scope string) (*discordgo.MessageEmbed, error) {
	missing, mismatches := report.Missing(), report.Mismatches()

	embed := &discordgo.MessageEmbed{Color: colorOK}
	var err error
	if report.OK() {
		embed.Title, err = r.text(titleOK)
	} else {
		embed.Color = colorFailed
		embed.Title, err = r.text(titleFailed, len(report.Findings))
	}
	if err != nil {
		return nil, err
	}
	if embed.Description, err = r.text(summary, report.Checked, len(missing), len(mismatches)); err != nil {
		return nil, err
	}

	if len(missing) > 0 {
		field, err := r.field(fieldMissing, missing, func(f domain.Finding) (string, error) {
			return r.text(missingLine, f.KeyString, f.Locale.String())
		})
		if err != nil {
			return nil, err
		}
		embed.Fields = append(embed.Fields, field)
	}
	if len(mismatches) > 0 {
		field, err := r.field(fieldMismatch, mismatches, func(f domain.Finding) (string, error) {
			return r.text(mismatchLine, f.KeyString, f.Locale.String(), f.Formatter, f.ArgType.String())
		})
		if err != nil {
			return nil, err
		}
		embed.Fields = append(embed.Fields, field)
	}

	foot, err := r.text(footer, cmp.Or(scope, "*"))
	if err != nil {
		return nil, err
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: foot}
	return embed, nil
}

// ErrorEmbed renders a run that aborted before producing a report. A nil
// error renders as an unknown one.
func (r *Reporter) ErrorEmbed(runErr error) (*discordgo.MessageEmbed, error) {
	title, err := r.text(titleError)
	if err != nil {
		return nil, err
	}
	detail := ""
	if runErr != nil {
		detail = runErr.Error()
	}
	desc, err := r.text(errorKey(runErr), detail)
	if err != nil {
		return nil, err
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: truncate(desc, 4096),
		Color:       colorFailed,
	}, nil
}

// Report posts the embed for report.
func (r *Reporter) Report(ctx context.Context, report *domain.Report, scope string) error {
	embed, err := r.Embed(report, scope)
	if err != nil {
		return err
	}
	return r.send(ctx, embed)
}

// ReportError posts the embed for an aborted run.
func (r *Reporter) ReportError(ctx context.Context, runErr error) error {
	embed, err := r.ErrorEmbed(runErr)
	if err != nil {
		return err
	}
	return r.send(ctx, embed)
}

func (r *Reporter) send(ctx context.Context, embed *discordgo.MessageEmbed) error {
	params := &discordgo.WebhookParams{
		Username: username,
		Embeds:   []*discordgo.MessageEmbed{embed},
	}
	if _, err := r.exec.WebhookExecute(r.id, r.token, true, params, discordgo.WithContext(ctx)); err != nil {
		r.logger.Error("discord: webhook delivery failed", zap.String("webhook", r.id), zap.Error(err))
		return fmt.Errorf("discord: execute webhook: %w", err)
	}
	r.logger.Info("discord: report delivered", zap.String("webhook", r.id), zap.String("title", embed.Title))
	return nil
}

func (r *Reporter) field(name domain.EnumKey, findings []domain.Finding, line func(domain.Finding) (string, error)) (*discordgo.MessageEmbedField, error) {
	title, err := r.text(name)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	shown := 0
	for _, f := range findings {
		if shown == maxFieldLines {
			break
		}
		l, err := line(f)
		if err != nil {
			return nil, err
		}
		// Keep room for the trailing "more" line.
		if utf8.RuneCountInString(b.String())+utf8.RuneCountInString(l)+1 > maxFieldLen-64 {
			break
		}
		if shown > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l)
		shown++
	}
	if rest := len(findings) - shown; rest > 0 {
		l, err := r.text(more, rest)
		if err != nil {
			return nil, err
		}
		if shown > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l)
	}
	return &discordgo.MessageEmbedField{Name: title, Value: truncate(b.String(), maxFieldLen)}, nil
}

func (r *Reporter) text(key domain.EnumKey, args ...any) (string, error) {
	return r.tr.T(key, domain.Many(args...))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
