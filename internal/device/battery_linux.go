//go:build linux

package device

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"arcspan.dev/src/telemetry.pipeline/internal/condition"
)

// SysfsBattery reads battery state from /sys/class/power_supply, the
// same interface Linux-based embedded runtimes (Android's kernel among
// them) expose. Psy is the power supply directory name, typically
// "BAT0" or "BAT1"; callers on devices with a different name should
// set it explicitly.
type SysfsBattery struct {
	Root string // defaults to /sys/class/power_supply
	Psy  string // defaults to BAT0
}

// NewSysfsBattery returns a SysfsBattery reading the default sysfs location.
func NewSysfsBattery() *SysfsBattery {
	return &SysfsBattery{Root: "/sys/class/power_supply", Psy: "BAT0"}
}

func (b *SysfsBattery) dir() string {
	root := b.Root
	if root == "" {
		root = "/sys/class/power_supply"
	}
	psy := b.Psy
	if psy == "" {
		psy = "BAT0"
	}
	return filepath.Join(root, psy)
}

// BatteryStatus reads capacity and charging status from sysfs. Level
// is negative if the files can't be read (no battery present, e.g. a
// desktop or CI host).
func (b *SysfsBattery) BatteryStatus() condition.BatteryStatus {
	capacity, err := readInt(filepath.Join(b.dir(), "capacity"))
	if err != nil {
		return condition.BatteryStatus{Level: -1}
	}
	status, _ := readString(filepath.Join(b.dir(), "status"))
	charging := strings.EqualFold(strings.TrimSpace(status), "Charging") ||
		strings.EqualFold(strings.TrimSpace(status), "Full")
	return condition.BatteryStatus{Level: float64(capacity) / 100.0, IsCharging: charging}
}

func readInt(path string) (int, error) {
	s, err := readString(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

func readString(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
