// Package errors provides the structured error type used by sttkit.
//
// Selection and construction failures are returned as *AppError values
// carrying a machine-readable code. Callers branch on the code:
//
//	p, err := registry.Select(ctx, "witai")
//	if errors.HasCode(err, errors.ErrCodeServiceUnavailable) {
//		// fall back to another provider
//	}
//
// Per-call transcription failures are never surfaced as errors; they are
// logged and reported as an empty result.
package errors
