package registry

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Registry", t, func() {
		r := New[int]()

		Convey("Register then Get round-trips", func() {
			So(r.Register("crashes", 1), ShouldBeNil)
			v, ok := r.Get("crashes")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1)
		})

		Convey("Get on an unknown name reports not found", func() {
			_, ok := r.Get("missing")
			So(ok, ShouldBeFalse)
		})

		Convey("Register rejects a duplicate name", func() {
			So(r.Register("crashes", 1), ShouldBeNil)
			err := r.Register("crashes", 2)
			So(err, ShouldNotBeNil)
		})

		Convey("Names lists every registered name", func() {
			So(r.Register("crashes", 1), ShouldBeNil)
			So(r.Register("traces", 2), ShouldBeNil)
			So(r.Names(), ShouldContain, "crashes")
			So(r.Names(), ShouldContain, "traces")
		})
	})
}
