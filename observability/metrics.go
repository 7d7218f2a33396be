package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricTranscribeTotal    = "stt.transcribe.total"
	MetricTranscribeDuration = "stt.transcribe.duration"
	MetricTokenRefreshTotal  = "stt.token.refresh.total"
)

// Metrics holds the instruments recorded around provider calls.
type Metrics struct {
	transcribeTotal    metric.Int64Counter
	transcribeDuration metric.Float64Histogram
	tokenRefreshTotal  metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	transcribeTotal, err := meter.Int64Counter(MetricTranscribeTotal,
		metric.WithDescription("Transcription calls by provider and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricTranscribeTotal, err)
	}

	transcribeDuration, err := meter.Float64Histogram(MetricTranscribeDuration,
		metric.WithDescription("Duration of transcription calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricTranscribeDuration, err)
	}

	tokenRefreshTotal, err := meter.Int64Counter(MetricTokenRefreshTotal,
		metric.WithDescription("Access token exchanges by provider and result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricTokenRefreshTotal, err)
	}

	return &Metrics{
		transcribeTotal:    transcribeTotal,
		transcribeDuration: transcribeDuration,
		tokenRefreshTotal:  tokenRefreshTotal,
	}, nil
}

// RecordTranscription records one finished Transcribe call.
func (m *Metrics) RecordTranscription(ctx context.Context, provider, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.transcribeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
	m.transcribeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
	))
}

// RecordTokenRefresh records one access token exchange.
func (m *Metrics) RecordTokenRefresh(ctx context.Context, provider string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.tokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("result", result),
	))
}
