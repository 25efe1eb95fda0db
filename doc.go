// Package pipeline persists application events to local disk and
// uploads them in batches once device-health conditions allow it.
//
// A Feature owns one named directory of on-disk files: Write appends
// an event, and a background worker goroutine periodically reads
// whole files back out, frames them as a batch, and hands them to an
// Uploader. Nothing here assumes a specific wire format or transport:
// callers plug in their own Uploader (internal/httpclient ships a
// reference net/http implementation) and their own device-health
// providers (internal/device ships reference Linux and static ones).
package pipeline
