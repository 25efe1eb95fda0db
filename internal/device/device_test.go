package device

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"arcspan.dev/src/telemetry.pipeline/internal/condition"
)

func TestStatic(t *testing.T) {
	Convey("Static reports exactly the fixed values it was given", t, func() {
		s := Static{
			Battery:     condition.BatteryStatus{Level: 0.42, IsCharging: true},
			LowPower:    true,
			IsReachable: false,
		}
		So(s.BatteryStatus().Level, ShouldEqual, 0.42)
		So(s.LowPowerModeEnabled(), ShouldBeTrue)
		So(s.Reachable(), ShouldBeFalse)
	})
}
