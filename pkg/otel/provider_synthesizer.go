package otel

import (
	"context"
	"time"

	"github.com/adrianliechti/murmur/pkg/provider"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type observableSynthesizer struct {
	name    string
	runtime string

	synthesizer provider.Synthesizer

	durationMetric metric.Float64Histogram
}

func NewSynthesizer(runtime, name string, p provider.Synthesizer) provider.Synthesizer {
	meter := otel.Meter(instrumentationName)

	durationMetric, _ := meter.Float64Histogram("speech.synthesis.duration",
		metric.WithDescription("Duration of speech synthesis requests"),
		metric.WithUnit("s"),
	)

	return &observableSynthesizer{
		synthesizer: p,

		name:    name,
		runtime: runtime,

		durationMetric: durationMetric,
	}
}

func (p *observableSynthesizer) Synthesize(ctx context.Context, content string, options *provider.SynthesizeOptions) (*provider.Synthesis, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "synthesize "+p.name)
	defer span.End()

	timestamp := time.Now()

	result, err := p.synthesizer.Synthesize(ctx, content, options)

	attrs := KeyValues(
		[]KeyValue{
			String("speech.runtime", p.runtime),
			String("speech.synthesizer", p.name),
		},
		EndUserAttrs(ctx),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		attrs = append(attrs, String("error.type", errorType(err)))
	} else {
		attrs = append(attrs,
			String("speech.model", result.Model),
			attribute.Int("speech.output.bytes", len(result.Content)),
			attribute.Float64("speech.output.duration", result.Duration.Seconds()),
		)
	}

	span.SetAttributes(attrs...)

	if p.durationMetric != nil {
		p.durationMetric.Record(ctx, time.Since(timestamp).Seconds(), metric.WithAttributes(attrs...))
	}

	if EnableDebug {
		span.SetAttributes(attribute.String("input", content))
	}

	return result, err
}
