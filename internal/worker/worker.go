// Package worker implements the UploadWorker (C6): a single
// cooperative, serially-ticking loop that pulls batches from a Reader,
// checks device-health blockers, hands batches to an Uploader, and
// adjusts the inter-attempt Delay based on the outcome. See spec.md §4.5.
package worker

import (
	"context"
	"sync"
	"time"

	"arcspan.dev/src/telemetry.pipeline/internal/batch"
	"arcspan.dev/src/telemetry.pipeline/internal/condition"
	"arcspan.dev/src/telemetry.pipeline/internal/telemetry"
	"arcspan.dev/src/telemetry.pipeline/internal/uploadstatus"
)

// Uploader delivers one already-framed batch to the collection
// endpoint and reports the outcome. Implementations must not retain b
// after returning.
type Uploader interface {
	Upload(ctx context.Context, b batch.Batch) uploadstatus.Status
}

// Reader is the slice of reader.Reader the worker depends on.
type Reader interface {
	NextBatch() (batch.Batch, bool)
	Ack(b batch.Batch)
	Retry(b batch.Batch)
}

// Conditions is the slice of condition.UploadConditions the worker depends on.
type Conditions interface {
	Blockers() []condition.Blocker
}

// DelayClock is the slice of condition.Delay the worker depends on.
type DelayClock interface {
	Current() time.Duration
	Increase() time.Duration
	Decrease() time.Duration
}

// Worker is the per-feature upload loop. All of its state is only
// ever touched from the single goroutine Run starts, except for the
// cancellation signal, which is the one thing safe to send from
// another goroutine; FlushSync/CancelSync instead hop onto that same
// goroutine via a request channel so they observe a consistent view.
type Worker struct {
	reader     Reader
	conditions Conditions
	delay      DelayClock
	uploader   Uploader
	tel        telemetry.Telemetry
	feature    string

	flushCh  chan chan struct{}
	cancelCh chan chan struct{}
	stopped  chan struct{}
	once     sync.Once
}

// New returns a Worker. Call Run in its own goroutine to start it.
func New(reader Reader, conditions Conditions, delay DelayClock, uploader Uploader, tel telemetry.Telemetry, feature string) *Worker {
	if tel == nil {
		tel = telemetry.Noop{}
	}
	return &Worker{
		reader:     reader,
		conditions: conditions,
		delay:      delay,
		uploader:   uploader,
		tel:        tel,
		feature:    feature,
		flushCh:    make(chan chan struct{}),
		cancelCh:   make(chan chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Run is the worker's serial loop. It owns every piece of mutable
// worker state and must run in exactly one goroutine for the lifetime
// of the Worker.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.stopped)
	timer := time.NewTimer(w.delay.Current())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case done := <-w.cancelCh:
			close(done)
			return

		case done := <-w.flushCh:
			w.flushAll(ctx)
			resetTimer(timer, w.delay.Current())
			close(done)

		case <-timer.C:
			w.tryUploadOne(ctx)
			resetTimer(timer, w.delay.Current())
		}
	}
}

// tryUploadOne implements one ordinary tick of spec.md §4.5's decision
// table: check blockers, pull one batch, upload it, and adjust Delay
// and the file's fate based on needs_retry alone. needs_retry=false
// covers both a clean success and a permanent failure (§7's
// Unauthorized/HttpError(4xx)/Redirection) — either way the batch is
// done with and the Delay backs off towards its floor. A tick that
// uploads nothing, because a blocker is present or no batch is
// eligible, increases the Delay.
func (w *Worker) tryUploadOne(ctx context.Context) {
	if blockers := w.conditions.Blockers(); len(blockers) > 0 {
		for _, b := range blockers {
			w.tel.BlockerObserved(w.feature, string(b))
		}
		w.delay.Increase()
		return
	}

	b, ok := w.reader.NextBatch()
	if !ok {
		w.delay.Increase()
		return
	}

	status := w.uploader.Upload(ctx, b)
	w.tel.UploadOutcome(w.feature, outcomeLabel(status))

	if status.NeedsRetry {
		w.reader.Retry(b)
		w.delay.Increase()
		return
	}
	w.reader.Ack(b)
	w.delay.Decrease()
}

// flushAll implements flush_synchronously(): it bypasses
// UploadConditions entirely and drains the feature's directory,
// uploading and deleting every pending batch regardless of outcome,
// until none remain. It never retains a batch for a later retry.
func (w *Worker) flushAll(ctx context.Context) {
	for ctx.Err() == nil {
		b, ok := w.reader.NextBatch()
		if !ok {
			return
		}
		status := w.uploader.Upload(ctx, b)
		w.tel.UploadOutcome(w.feature, outcomeLabel(status))
		w.reader.Ack(b)
	}
}

func outcomeLabel(status uploadstatus.Status) string {
	if status.Ok() {
		return "success"
	}
	return status.Kind.String()
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// FlushSync blocks until the feature's entire on-disk backlog has
// been drained on the worker's own goroutine: every pending batch is
// uploaded and deleted, regardless of device-health blockers and
// regardless of upload outcome, until the directory is empty. It
// returns early if ctx is canceled or the worker has already stopped,
// in which case some backlog may remain.
func (w *Worker) FlushSync(ctx context.Context) {
	done := make(chan struct{})
	select {
	case w.flushCh <- done:
	case <-w.stopped:
		return
	case <-ctx.Done():
		return
	}
	select {
	case <-done:
	case <-w.stopped:
	case <-ctx.Done():
	}
}

// CancelSync stops the worker and blocks until it has actually
// stopped. Because the stop signal is handled on the same serial
// goroutine as every other tick, CancelSync can never race an
// in-flight upload attempt: either the attempt finishes first and the
// next select picks up the cancellation, or cancellation is observed
// before any attempt starts.
func (w *Worker) CancelSync() {
	w.once.Do(func() {
		done := make(chan struct{})
		select {
		case w.cancelCh <- done:
			<-done
		case <-w.stopped:
		}
	})
}
