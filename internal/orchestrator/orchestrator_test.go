package orchestrator

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"arcspan.dev/src/telemetry.pipeline/internal/datafile"
	"arcspan.dev/src/telemetry.pipeline/internal/telemetry"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func testConfig() Config {
	return Config{
		MaxObjectSize:      1024,
		MaxFileSize:        4096,
		MaxDirectorySize:   1 << 20,
		MaxObjectsInFile:   3,
		MaxFileAgeForWrite: 10 * time.Second,
		MinFileAgeForRead:  20 * time.Second,
		MaxFileAgeForRead:  time.Hour,
	}
}

func TestOrchestrator(t *testing.T) {
	Convey("Orchestrator", t, func() {
		root := t.TempDir()
		dir, err := datafile.Open(root)
		So(err, ShouldBeNil)

		clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
		o := New(dir, testConfig(), clock, "feature", telemetry.Noop{})

		Convey("GetWritableFile rejects objects over MaxObjectSize", func() {
			_, err := o.GetWritableFile(2048)
			So(err, ShouldEqual, ErrTooLarge)
		})

		Convey("GetWritableFile reuses the same file across calls", func() {
			f1, err := o.GetWritableFile(10)
			So(err, ShouldBeNil)
			So(f1.Append([]byte("0123456789")), ShouldBeNil)

			f2, err := o.GetWritableFile(10)
			So(err, ShouldBeNil)
			So(f2.Name, ShouldEqual, f1.Name)
		})

		Convey("GetWritableFile rolls over once MaxObjectsInFile is hit", func() {
			cfg := testConfig()
			var initial string
			for i := 0; i < cfg.MaxObjectsInFile; i++ {
				f, err := o.GetWritableFile(1)
				So(err, ShouldBeNil)
				So(f.Append([]byte("x")), ShouldBeNil)
				initial = f.Name
			}

			clock.now = clock.now.Add(time.Millisecond)
			rolled, err := o.GetWritableFile(1)
			So(err, ShouldBeNil)
			So(rolled.Name, ShouldNotEqual, initial)
		})

		Convey("GetWritableFile rolls over once the file ages out", func() {
			f1, err := o.GetWritableFile(1)
			So(err, ShouldBeNil)
			So(f1.Append([]byte("x")), ShouldBeNil)

			clock.now = clock.now.Add(20 * time.Second)
			f2, err := o.GetWritableFile(1)
			So(err, ShouldBeNil)
			So(f2.Name, ShouldNotEqual, f1.Name)
		})

		Convey("GetReadableFile", func() {
			Convey("returns nothing when no file is old enough", func() {
				f, err := o.GetWritableFile(1)
				So(err, ShouldBeNil)
				So(f.Append([]byte("x")), ShouldBeNil)

				_, ok := o.GetReadableFile(nil)
				So(ok, ShouldBeFalse)
			})

			Convey("returns a file once it clears MinFileAgeForRead", func() {
				f, err := o.GetWritableFile(1)
				So(err, ShouldBeNil)
				So(f.Append([]byte("x")), ShouldBeNil)

				clock.now = clock.now.Add(30 * time.Second)
				got, ok := o.GetReadableFile(nil)
				So(ok, ShouldBeTrue)
				So(got.Name, ShouldEqual, f.Name)
			})

			Convey("skips names in the exclude set", func() {
				f, err := o.GetWritableFile(1)
				So(err, ShouldBeNil)
				So(f.Append([]byte("x")), ShouldBeNil)

				clock.now = clock.now.Add(30 * time.Second)
				_, ok := o.GetReadableFile(map[string]bool{f.Name: true})
				So(ok, ShouldBeFalse)
			})

			Convey("deletes files older than MaxFileAgeForRead before considering them", func() {
				f, err := o.GetWritableFile(1)
				So(err, ShouldBeNil)
				So(f.Append([]byte("x")), ShouldBeNil)

				clock.now = clock.now.Add(2 * time.Hour)
				_, ok := o.GetReadableFile(nil)
				So(ok, ShouldBeFalse)
				So(f.Exists(), ShouldBeFalse)
			})
		})

		Convey("Delete removes the named file", func() {
			f, err := o.GetWritableFile(1)
			So(err, ShouldBeNil)
			So(f.Append([]byte("x")), ShouldBeNil)

			o.Delete(f.Name)
			So(f.Exists(), ShouldBeFalse)
		})
	})
}
