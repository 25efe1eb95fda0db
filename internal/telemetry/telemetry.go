// Package telemetry splits diagnostic visibility into the two sinks
// spec.md §7 calls for: a human-readable Logger for user-facing
// one-liners (upload progress, unauthorized-token warnings) and a
// machine-collected Telemetry sink for internal error events. Neither
// sink's failure may ever propagate back into the pipeline.
package telemetry

// Logger emits human-readable, one-line diagnostics. Implementations
// must never block the caller on I/O errors of their own.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Telemetry is the internal sink for machine-collected error events.
// Every method is fire-and-forget from the caller's perspective.
type Telemetry interface {
	// EventDropped records an event the Writer could not persist.
	EventDropped(feature, reason string)
	// FileDeleted records a file removed after a terminal outcome
	// (either a successful upload or a permanent error).
	FileDeleted(feature, reason string)
	// FileRetained records a file kept on disk for a later retry.
	FileRetained(feature, reason string)
	// BlockerObserved records a device-health precondition that
	// prevented an upload attempt this tick.
	BlockerObserved(feature, blocker string)
	// UploadOutcome records the result of one upload attempt.
	UploadOutcome(feature, outcome string)
	// IOError records a best-effort filesystem failure.
	IOError(feature, op string, err error)
}
