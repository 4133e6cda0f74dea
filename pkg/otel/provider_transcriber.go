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

type observableTranscriber struct {
	name    string
	runtime string

	transcriber provider.Transcriber

	durationMetric metric.Float64Histogram
}

func NewTranscriber(runtime, name string, p provider.Transcriber) provider.Transcriber {
	meter := otel.Meter(instrumentationName)

	durationMetric, _ := meter.Float64Histogram("speech.transcription.duration",
		metric.WithDescription("Duration of transcription requests"),
		metric.WithUnit("s"),
	)

	return &observableTranscriber{
		transcriber: p,

		name:    name,
		runtime: runtime,

		durationMetric: durationMetric,
	}
}

func (p *observableTranscriber) Transcribe(ctx context.Context, input provider.File, options *provider.TranscribeOptions) (*provider.Transcription, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "transcribe "+p.name)
	defer span.End()

	timestamp := time.Now()

	result, err := p.transcriber.Transcribe(ctx, input, options)

	attrs := KeyValues(
		[]KeyValue{
			String("speech.runtime", p.runtime),
			String("speech.transcriber", p.name),
			attribute.Int("speech.input.bytes", len(input.Content)),
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
			String("speech.language", result.Language),
		)
	}

	span.SetAttributes(attrs...)

	if p.durationMetric != nil {
		p.durationMetric.Record(ctx, time.Since(timestamp).Seconds(), metric.WithAttributes(attrs...))
	}

	if EnableDebug && result != nil {
		span.SetAttributes(attribute.String("output", result.Text))
	}

	return result, err
}
