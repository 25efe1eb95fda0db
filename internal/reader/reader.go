// Package reader implements the Reader (C4): the component that turns
// a readable file into a framed batch.Batch ready for upload, and
// later acknowledges that batch as delivered or retryable. See
// spec.md §4.3.
package reader

import (
	"bytes"

	"github.com/pkg/errors"

	"arcspan.dev/src/telemetry.pipeline/internal/batch"
	"arcspan.dev/src/telemetry.pipeline/internal/datafile"
	"arcspan.dev/src/telemetry.pipeline/internal/telemetry"
)

// FileOrchestrator is the slice of orchestrator.Orchestrator the
// Reader depends on.
type FileOrchestrator interface {
	GetReadableFile(exclude map[string]bool) (datafile.File, bool)
	Delete(name string)
	DeleteAllReadable() error
}

// Reader produces the next batch.Batch for one feature and tracks
// which file names are currently checked out for upload, so the same
// file is never handed to two concurrent upload attempts.
type Reader struct {
	orch    FileOrchestrator
	format  batch.Format
	tel     telemetry.Telemetry
	feature string

	checkedOut map[string]bool
}

// New returns a Reader for one feature.
func New(orch FileOrchestrator, format batch.Format, tel telemetry.Telemetry, feature string) *Reader {
	if tel == nil {
		tel = telemetry.Noop{}
	}
	return &Reader{orch: orch, format: format, tel: tel, feature: feature, checkedOut: make(map[string]bool)}
}

// NextBatch returns the next file eligible for upload, framed as a
// batch.Batch, or ok=false if nothing is currently eligible. A file
// handed out by NextBatch is excluded from future calls until Ack or
// Retry is called on it.
func (r *Reader) NextBatch() (b batch.Batch, ok bool) {
	f, found := r.orch.GetReadableFile(r.checkedOut)
	if !found {
		return batch.Batch{}, false
	}

	raw, err := f.ReadAll()
	if err != nil {
		r.tel.IOError(r.feature, "read", err)
		r.orch.Delete(f.Name)
		return batch.Batch{}, false
	}
	if len(raw) == 0 {
		r.orch.Delete(f.Name)
		return batch.Batch{}, false
	}

	eventCount := bytes.Count(raw, r.format.Separator) + 1
	fr := batch.Frame(r.format, f.Name, r.feature, raw, eventCount)
	r.checkedOut[f.Name] = true
	return fr, true
}

// Ack deletes the file backing b: the upload succeeded, or failed in
// a way spec.md §7 says is never worth retrying.
func (r *Reader) Ack(b batch.Batch) {
	delete(r.checkedOut, b.FileName)
	r.tel.FileDeleted(r.feature, "acked")
	r.orch.Delete(b.FileName)
}

// Retry releases b back to the pool of eligible files without
// deleting it, so a future NextBatch call may hand it out again.
func (r *Reader) Retry(b batch.Batch) {
	delete(r.checkedOut, b.FileName)
	r.tel.FileRetained(r.feature, "retry")
}

// DiscardAll deletes every file the feature currently has on disk,
// including any checked-out-but-unacked ones. Used by
// Feature.DiscardBacklog, an explicit opt-in a host calls when a
// feature's backlog is no longer wanted, never automatically.
func (r *Reader) DiscardAll() error {
	r.checkedOut = make(map[string]bool)
	if err := r.orch.DeleteAllReadable(); err != nil {
		return errors.Wrap(err, "discard all readable files")
	}
	return nil
}
