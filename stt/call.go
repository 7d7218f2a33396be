package stt

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/sttkit/logger"
	"github.com/kbukum/sttkit/observability"
)

// Outcome classifies how a Transcribe call ended. Callers only see the
// Result; outcomes are for logs, metrics and traces.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeEmpty           Outcome = "empty"
	OutcomeFailedTransport Outcome = "failed_transport"
	OutcomeFailedHTTP      Outcome = "failed_http"
	OutcomeFailedAuth      Outcome = "failed_auth"
	OutcomeFailedParse     Outcome = "failed_parse"
	OutcomeFailedInput     Outcome = "failed_input"
)

// Failed reports whether the outcome is one of the failed_* outcomes.
func (o Outcome) Failed() bool { return strings.HasPrefix(string(o), "failed_") }

// Call tracks one Transcribe invocation: request id, span, timer and a logger
// carrying both.
type Call struct {
	ctx     context.Context
	span    trace.Span
	start   time.Time
	slug    string
	id      string
	log     *logger.Logger
	metrics *observability.Metrics
}

// StartCall begins a call for the provider slug. The returned context carries
// the span and must be used for outbound requests.
func StartCall(ctx context.Context, slug string, opts Options) (context.Context, *Call) {
	id := uuid.NewString()
	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrProvider, slug),
			attribute.String(observability.AttrRequestID, id),
		),
	)

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return ctx, &Call{
		ctx:     ctx,
		span:    span,
		start:   time.Now(),
		slug:    slug,
		id:      id,
		log:     log.WithFields(logger.Fields(logger.FieldProvider, slug, logger.FieldRequestID, id)),
		metrics: opts.Metrics,
	}
}

// ID returns the request id.
func (c *Call) ID() string { return c.id }

// Logger returns the call-scoped logger.
func (c *Call) Logger() *logger.Logger { return c.log }

// AudioBytes records the size of the uploaded payload.
func (c *Call) AudioBytes(n int) {
	c.span.SetAttributes(attribute.Int(observability.AttrAudioBytes, n))
}

// Status records the HTTP status of the last response.
func (c *Call) Status(code int) {
	c.span.SetAttributes(attribute.Int(observability.AttrStatusCode, code))
}

// Error records err on the span.
func (c *Call) Error(err error) {
	observability.SetSpanError(c.span, err)
}

// End finishes the call and returns result, replacing nil with an empty
// Result.
func (c *Call) End(outcome Outcome, result Result) Result {
	if result == nil {
		result = Result{}
	}
	elapsed := time.Since(c.start)

	c.span.SetAttributes(
		attribute.String(observability.AttrOutcome, string(outcome)),
		attribute.Int(observability.AttrCandidates, len(result)),
	)
	if outcome.Failed() {
		c.span.SetStatus(codes.Error, string(outcome))
	}
	c.span.End()

	c.metrics.RecordTranscription(c.ctx, c.slug, string(outcome), elapsed)
	c.log.Debug("transcription finished", logger.Fields(
		logger.FieldOutcome, string(outcome),
		"candidates", len(result),
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return result
}
