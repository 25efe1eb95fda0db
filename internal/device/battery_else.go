//go:build !linux

package device

import "arcspan.dev/src/telemetry.pipeline/internal/condition"

// SysfsBattery is a no-op stand-in on platforms without sysfs. Battery
// level always reads as unknown, matching the teacher's own
// file_else.go pattern of a harmless fallback rather than a build
// failure on unsupported platforms.
type SysfsBattery struct {
	Root string
	Psy  string
}

// NewSysfsBattery returns a SysfsBattery that always reports unknown.
func NewSysfsBattery() *SysfsBattery {
	return &SysfsBattery{}
}

// BatteryStatus always reports an unknown level on this platform.
func (b *SysfsBattery) BatteryStatus() condition.BatteryStatus {
	return condition.BatteryStatus{Level: -1}
}
