package reader

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"arcspan.dev/src/telemetry.pipeline/internal/batch"
	"arcspan.dev/src/telemetry.pipeline/internal/datafile"
	"arcspan.dev/src/telemetry.pipeline/internal/telemetry"
)

type fakeOrchestrator struct {
	files   []datafile.File
	deleted []string
}

func (f *fakeOrchestrator) GetReadableFile(exclude map[string]bool) (datafile.File, bool) {
	for _, file := range f.files {
		if exclude[file.Name] {
			continue
		}
		return file, true
	}
	return datafile.File{}, false
}

func (f *fakeOrchestrator) Delete(name string) {
	f.deleted = append(f.deleted, name)
}

func (f *fakeOrchestrator) DeleteAllReadable() error {
	f.files = nil
	return nil
}

func TestReader(t *testing.T) {
	Convey("Reader", t, func() {
		root := t.TempDir()
		file := datafile.New(root, "1700000000000")
		So(file.Append([]byte(`{"a":1},{"a":2}`)), ShouldBeNil)

		orch := &fakeOrchestrator{files: []datafile.File{file}}
		r := New(orch, batch.DefaultFormat(), telemetry.Noop{}, "feature")

		Convey("NextBatch frames raw bytes and counts events", func() {
			b, ok := r.NextBatch()
			So(ok, ShouldBeTrue)
			So(string(b.Bytes), ShouldEqual, `[{"a":1},{"a":2}]`)
			So(b.EventCount, ShouldEqual, 2)
			So(b.FileName, ShouldEqual, file.Name)
		})

		Convey("a checked-out file is excluded from the next call", func() {
			_, ok := r.NextBatch()
			So(ok, ShouldBeTrue)
			_, ok = r.NextBatch()
			So(ok, ShouldBeFalse)
		})

		Convey("Ack deletes the file and clears checkout", func() {
			b, _ := r.NextBatch()
			r.Ack(b)
			So(orch.deleted, ShouldContain, file.Name)

			_, ok := r.NextBatch()
			So(ok, ShouldBeTrue)
		})

		Convey("Retry clears checkout without deleting", func() {
			b, _ := r.NextBatch()
			r.Retry(b)
			So(orch.deleted, ShouldBeEmpty)

			orch.files = []datafile.File{file}
			_, ok := r.NextBatch()
			So(ok, ShouldBeTrue)
		})

		Convey("an empty file is deleted and skipped", func() {
			empty := datafile.New(root, "1700000000001")
			So(empty.Append(nil), ShouldBeNil)
			orch.files = []datafile.File{empty}

			_, ok := r.NextBatch()
			So(ok, ShouldBeFalse)
			So(orch.deleted, ShouldContain, empty.Name)
		})
	})
}
