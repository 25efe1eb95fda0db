// Package writer implements the Writer (C3): the only component that
// appends event bytes to a feature's on-disk files. See spec.md §4.2.
//
// A Writer never returns an error the caller must handle: persistence
// is best-effort from the application's point of view, exactly as
// spec.md §4.2 requires, so every failure is reported through
// telemetry.Telemetry and then swallowed.
package writer

import (
	"os"
	"sync"

	"github.com/pkg/errors"

	"arcspan.dev/src/telemetry.pipeline/internal/batch"
	"arcspan.dev/src/telemetry.pipeline/internal/datafile"
	"arcspan.dev/src/telemetry.pipeline/internal/diskspace"
	"arcspan.dev/src/telemetry.pipeline/internal/orchestrator"
	"arcspan.dev/src/telemetry.pipeline/internal/telemetry"
)

// FileOrchestrator is the slice of orchestrator.Orchestrator the
// Writer depends on, defined here on the consumer side per Go
// convention so tests can supply a fake.
type FileOrchestrator interface {
	GetWritableFile(writeSize int64) (datafile.File, error)
}

// Writer appends framed event bytes to whatever file the orchestrator
// currently considers writable for one feature. Concurrent Write calls
// are serialized.
type Writer struct {
	mu           sync.Mutex
	orch         FileOrchestrator
	format       batch.Format
	tel          telemetry.Telemetry
	feature      string
	maxFileSize  int64
}

// New returns a Writer for one feature. maxFileSize is used only to
// size the disk-space reservation made when a new file is started.
func New(orch FileOrchestrator, format batch.Format, tel telemetry.Telemetry, feature string, maxFileSize int64) *Writer {
	if tel == nil {
		tel = telemetry.Noop{}
	}
	return &Writer{orch: orch, format: format, tel: tel, feature: feature, maxFileSize: maxFileSize}
}

// Write appends a single event's bytes to the feature's current
// writable file, prefixing it with the configured separator unless it
// is the first event in the file. Oversized events and I/O failures
// are reported and discarded; they are never returned to the caller.
func (w *Writer) Write(event []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	reserveFor := int64(len(event)) + int64(len(w.format.Separator))

	f, err := w.orch.GetWritableFile(reserveFor)
	if errors.Is(err, orchestrator.ErrTooLarge) {
		w.tel.EventDropped(w.feature, "too_large")
		return nil
	}
	if err != nil {
		w.tel.IOError(w.feature, "get_writable_file", err)
		w.tel.EventDropped(w.feature, "io_error")
		return nil
	}

	size, err := f.Size()
	if err != nil {
		w.tel.IOError(w.feature, "stat", err)
		w.tel.EventDropped(w.feature, "io_error")
		return nil
	}

	buf := make([]byte, 0, reserveFor)
	if size > 0 {
		buf = append(buf, w.format.Separator...)
	}
	buf = append(buf, event...)

	if size == 0 {
		err = w.createAndReserve(f, buf)
	} else {
		err = f.Append(buf)
	}
	if err != nil {
		w.tel.IOError(w.feature, "append", err)
		w.tel.EventDropped(w.feature, "io_error")
		return nil
	}
	return nil
}

// createAndReserve opens a brand-new file, attempts to preallocate
// maxFileSize bytes on disk (best-effort, see internal/diskspace), and
// writes the first event. Reservation failures never block the write.
func (w *Writer) createAndReserve(f datafile.File, buf []byte) error {
	fh, err := os.OpenFile(f.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return errors.Wrapf(err, "create %s", f.Path())
	}
	defer fh.Close()

	if err := diskspace.Reserve(fh, w.maxFileSize); err != nil {
		w.tel.IOError(w.feature, "reserve", err)
	}
	if _, err := fh.Write(buf); err != nil {
		return errors.Wrapf(err, "write %s", f.Path())
	}
	return nil
}
