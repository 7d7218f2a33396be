// Package observability wires OpenTelemetry tracing and metrics for speech
// provider calls.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("assistant"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("assistant"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("sttkit"))
//	metrics.RecordTranscription(ctx, "google", "success", elapsed)
//
// A nil *Metrics is valid and records nothing.
package observability
