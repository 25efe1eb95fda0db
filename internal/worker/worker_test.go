package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"arcspan.dev/src/telemetry.pipeline/internal/batch"
	"arcspan.dev/src/telemetry.pipeline/internal/condition"
	"arcspan.dev/src/telemetry.pipeline/internal/telemetry"
	"arcspan.dev/src/telemetry.pipeline/internal/uploadstatus"
)

type fakeReader struct {
	mu      sync.Mutex
	pending []batch.Batch
	acked   []string
	retried []string
}

func (r *fakeReader) NextBatch() (batch.Batch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		return batch.Batch{}, false
	}
	b := r.pending[0]
	r.pending = r.pending[1:]
	return b, true
}

func (r *fakeReader) Ack(b batch.Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acked = append(r.acked, b.FileName)
}

func (r *fakeReader) Retry(b batch.Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retried = append(r.retried, b.FileName)
	r.pending = append(r.pending, b)
}

type fakeConditions struct {
	blockers []condition.Blocker
}

func (c *fakeConditions) Blockers() []condition.Blocker { return c.blockers }

type fakeDelay struct {
	mu        sync.Mutex
	current   time.Duration
	increased int
	decreased int
}

func (d *fakeDelay) Current() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *fakeDelay) Increase() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.increased++
	return d.current
}

func (d *fakeDelay) Decrease() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.decreased++
	return d.current
}

type fakeUploader struct {
	status uploadstatus.Status
}

func (u *fakeUploader) Upload(ctx context.Context, b batch.Batch) uploadstatus.Status {
	return u.status
}

func TestWorker(t *testing.T) {
	Convey("Worker.FlushSync", t, func() {
		reader := &fakeReader{pending: []batch.Batch{{FileName: "1"}, {FileName: "2"}, {FileName: "3"}}}
		conditions := &fakeConditions{}
		delay := &fakeDelay{current: time.Hour} // long enough that no timed tick runs; only FlushSync does work
		uploader := &fakeUploader{status: uploadstatus.Status{Kind: uploadstatus.None}}
		w := New(reader, conditions, delay, uploader, telemetry.Noop{}, "feature")

		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)
		defer func() {
			cancel()
			w.CancelSync()
		}()

		flushCtx, flushCancel := context.WithTimeout(context.Background(), time.Second)
		defer flushCancel()

		Convey("drains every pending batch in one call", func() {
			w.FlushSync(flushCtx)
			So(reader.acked, ShouldResemble, []string{"1", "2", "3"})
		})

		Convey("bypasses blockers entirely", func() {
			conditions.blockers = []condition.Blocker{condition.BlockerNoNetwork}
			w.FlushSync(flushCtx)
			So(reader.acked, ShouldResemble, []string{"1", "2", "3"})
		})

		Convey("acks even a retryable failure status, never retaining it", func() {
			uploader.status = uploadstatus.Status{Kind: uploadstatus.NetworkError, NeedsRetry: true}
			w.FlushSync(flushCtx)
			So(reader.acked, ShouldResemble, []string{"1", "2", "3"})
			So(reader.retried, ShouldBeEmpty)
		})

		Convey("does not touch Delay", func() {
			w.FlushSync(flushCtx)
			So(delay.increased, ShouldEqual, 0)
			So(delay.decreased, ShouldEqual, 0)
		})
	})

	Convey("Worker.CancelSync stops the loop", t, func() {
		reader := &fakeReader{}
		conditions := &fakeConditions{}
		delay := &fakeDelay{current: time.Hour}
		uploader := &fakeUploader{}
		w := New(reader, conditions, delay, uploader, telemetry.Noop{}, "feature")

		ctx := context.Background()
		go w.Run(ctx)
		w.CancelSync()

		flushCtx, flushCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer flushCancel()
		w.FlushSync(flushCtx) // should return promptly, worker already stopped
	})

	Convey("tryUploadOne's decision table", t, func() {
		conditions := &fakeConditions{}
		delay := &fakeDelay{current: time.Hour}

		Convey("a blocker prevents pulling a batch at all", func() {
			reader := &fakeReader{pending: []batch.Batch{{FileName: "1"}}}
			uploader := &fakeUploader{status: uploadstatus.Status{Kind: uploadstatus.None}}
			conditions.blockers = []condition.Blocker{condition.BlockerNoNetwork}
			w := New(reader, conditions, delay, uploader, telemetry.Noop{}, "feature")

			w.tryUploadOne(context.Background())
			So(reader.acked, ShouldBeEmpty)
			So(reader.retried, ShouldBeEmpty)
			So(len(reader.pending), ShouldEqual, 1)
		})

		Convey("success acks the batch and decreases Delay", func() {
			reader := &fakeReader{pending: []batch.Batch{{FileName: "1"}}}
			uploader := &fakeUploader{status: uploadstatus.Status{Kind: uploadstatus.None}}
			w := New(reader, conditions, delay, uploader, telemetry.Noop{}, "feature")

			w.tryUploadOne(context.Background())
			So(reader.acked, ShouldContain, "1")
			So(delay.decreased, ShouldEqual, 1)
			So(delay.increased, ShouldEqual, 0)
		})

		Convey("needs_retry retains the batch and increases Delay", func() {
			reader := &fakeReader{pending: []batch.Batch{{FileName: "1"}}}
			uploader := &fakeUploader{status: uploadstatus.Status{Kind: uploadstatus.NetworkError, NeedsRetry: true}}
			w := New(reader, conditions, delay, uploader, telemetry.Noop{}, "feature")

			w.tryUploadOne(context.Background())
			So(reader.retried, ShouldContain, "1")
			So(delay.increased, ShouldEqual, 1)
			So(delay.decreased, ShouldEqual, 0)
		})

		Convey("a permanent failure acks the batch and decreases Delay, same as success", func() {
			reader := &fakeReader{pending: []batch.Batch{{FileName: "1"}}}
			uploader := &fakeUploader{status: uploadstatus.Status{Kind: uploadstatus.Unauthorized, NeedsRetry: false}}
			w := New(reader, conditions, delay, uploader, telemetry.Noop{}, "feature")

			w.tryUploadOne(context.Background())
			So(reader.acked, ShouldContain, "1")
			So(reader.retried, ShouldBeEmpty)
			So(delay.decreased, ShouldEqual, 1)
			So(delay.increased, ShouldEqual, 0)
		})
	})
}
