package otel

import (
	"context"

	"github.com/adrianliechti/murmur/pkg/guard"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// NewGuardObserver records every guarded model invocation as a metric and
// a span event.
func NewGuardObserver() guard.Observer {
	meter := otel.Meter(instrumentationName)

	attemptsMetric, _ := meter.Int64Counter("speech.inference.attempts",
		metric.WithDescription("Guarded model invocations"),
	)

	downgradesMetric, _ := meter.Int64Counter("speech.inference.downgrades",
		metric.WithDescription("Model downgrades after resource exhaustion"),
	)

	return func(ctx context.Context, attempt guard.Attempt, err error) {
		outcome := "success"

		if err != nil {
			outcome = errorType(err)
		}

		attrs := []KeyValue{
			String("speech.operation", string(attempt.Operation)),
			String("speech.model", attempt.Model),
			String("speech.outcome", outcome),
			attribute.Bool("speech.retried", attempt.Retried),
		}

		if attemptsMetric != nil {
			attemptsMetric.Add(ctx, 1, metric.WithAttributes(attrs...))
		}

		if attempt.Downgraded && downgradesMetric != nil {
			downgradesMetric.Add(ctx, 1, metric.WithAttributes(String("speech.operation", string(attempt.Operation))))
		}

		trace.SpanFromContext(ctx).AddEvent("inference", trace.WithAttributes(append(attrs,
			attribute.Bool("speech.downgraded", attempt.Downgraded),
			attribute.Float64("speech.duration", attempt.Duration.Seconds()),
		)...))
	}
}
