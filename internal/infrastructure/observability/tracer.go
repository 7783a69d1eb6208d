// Package observability reports translation events to OpenTelemetry.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"transkey/internal/domain"
	"transkey/internal/ports/output"
)

const instrumentationName = "transkey"

var _ output.Observer = (*Tracer)(nil)

// Tracer records one span per translation, a duration histogram and a
// counter of missing translations.
type Tracer struct {
	tracer   trace.Tracer
	duration metric.Float64Histogram
	missing  metric.Int64Counter
}

func NewTracer(tp trace.TracerProvider, mp metric.MeterProvider) (*Tracer, error) {
	meter := mp.Meter(instrumentationName)
	duration, err := meter.Float64Histogram("transkey.translation.duration",
		metric.WithDescription("Time spent rendering one translation."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("duration histogram: %w", err)
	}
	missing, err := meter.Int64Counter("transkey.translation.missing",
		metric.WithDescription("Translations that had no formatter."),
	)
	if err != nil {
		return nil, fmt.Errorf("missing counter: %w", err)
	}
	return &Tracer{
		tracer:   tp.Tracer(instrumentationName),
		duration: duration,
		missing:  missing,
	}, nil
}

func (t *Tracer) TranslationDone(ev output.TranslationEvent) {
	ctx := context.Background()
	attrs := []attribute.KeyValue{
		attribute.String("i18n.locale", ev.Locale.String()),
		attribute.String("i18n.key", ev.Key),
		attribute.Bool("i18n.fallback", ev.Fallback),
	}

	_, span := t.tracer.Start(ctx, "i18n.translate",
		trace.WithTimestamp(ev.Start),
		trace.WithAttributes(attrs...),
	)
	if ev.Err != nil {
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, domain.Code(ev.Err))
	}
	span.End(trace.WithTimestamp(ev.Start.Add(ev.Duration)))

	t.duration.Record(ctx, float64(ev.Duration.Microseconds())/1000.0, metric.WithAttributes(attrs[0]))
	if domain.Code(ev.Err) == "missing_translation" {
		t.missing.Add(ctx, 1, metric.WithAttributes(attrs[:2]...))
	}
}
