package writer

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"arcspan.dev/src/telemetry.pipeline/internal/batch"
	"arcspan.dev/src/telemetry.pipeline/internal/datafile"
	"arcspan.dev/src/telemetry.pipeline/internal/orchestrator"
	"arcspan.dev/src/telemetry.pipeline/internal/telemetry"
)

// fakeOrchestrator hands out a single fixed file, so the writer tests
// exercise framing without pulling in the real orchestrator package.
type fakeOrchestrator struct {
	file     datafile.File
	tooLarge int64
}

func (f *fakeOrchestrator) GetWritableFile(writeSize int64) (datafile.File, error) {
	if f.tooLarge > 0 && writeSize > f.tooLarge {
		return datafile.File{}, orchestrator.ErrTooLarge
	}
	return f.file, nil
}

func TestWriter(t *testing.T) {
	Convey("Writer", t, func() {
		root := t.TempDir()
		file := datafile.New(root, "1700000000000")
		orch := &fakeOrchestrator{file: file}
		w := New(orch, batch.DefaultFormat(), telemetry.Noop{}, "feature", 4096)

		Convey("writes the first event with no leading separator", func() {
			So(w.Write([]byte(`{"a":1}`)), ShouldBeNil)
			b, err := file.ReadAll()
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"a":1}`)
		})

		Convey("separates subsequent events with the format separator", func() {
			So(w.Write([]byte(`{"a":1}`)), ShouldBeNil)
			So(w.Write([]byte(`{"a":2}`)), ShouldBeNil)
			b, err := file.ReadAll()
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"a":1},{"a":2}`)
		})

		Convey("drops oversized events without returning an error", func() {
			orch.tooLarge = 4
			err := w.Write([]byte(`{"a":1}`))
			So(err, ShouldBeNil)
			So(file.Exists(), ShouldBeFalse)
		})
	})
}
