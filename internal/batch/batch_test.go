package batch

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFrame(t *testing.T) {
	Convey("Frame wraps raw bytes with the format's prefix and suffix", t, func() {
		f := DefaultFormat()
		b := Frame(f, "1700000000000", "crashes", []byte(`{"a":1},{"a":2}`), 2)

		So(string(b.Bytes), ShouldEqual, `[{"a":1},{"a":2}]`)
		So(b.FileName, ShouldEqual, "1700000000000")
		So(b.FeatureName, ShouldEqual, "crashes")
		So(b.EventCount, ShouldEqual, 2)
	})

	Convey("DefaultFormat produces a JSON array shape", t, func() {
		f := DefaultFormat()
		So(string(f.Prefix), ShouldEqual, "[")
		So(string(f.Suffix), ShouldEqual, "]")
		So(string(f.Separator), ShouldEqual, ",")
	})
}
