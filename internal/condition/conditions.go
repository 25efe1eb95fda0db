package condition

// Blocker names one precondition that is currently preventing an
// upload attempt.
type Blocker string

const (
	BlockerLowBattery   Blocker = "low_battery"
	BlockerLowPowerMode Blocker = "low_power_mode"
	BlockerNoNetwork    Blocker = "no_network"
)

// BatteryStatus is the minimal battery state the conditions care about.
type BatteryStatus struct {
	Level      float64 // 0.0-1.0, negative if unknown
	IsCharging bool
}

// BatteryProvider reports the device's current battery status.
type BatteryProvider interface {
	BatteryStatus() BatteryStatus
}

// PowerModeProvider reports whether the OS has the device in a
// reduced-power mode (iOS Low Power Mode, Android power saver, ...).
type PowerModeProvider interface {
	LowPowerModeEnabled() bool
}

// NetworkProvider reports whether the device currently has a usable
// network path to the upload endpoint.
type NetworkProvider interface {
	Reachable() bool
}

// Config holds the thresholds UploadConditions evaluates against.
type Config struct {
	MinBatteryLevel float64 // uploads blocked below this unless charging
}

// UploadConditions evaluates device health to decide whether an
// upload attempt should even be tried this tick.
type UploadConditions struct {
	battery BatteryProvider
	power   PowerModeProvider
	network NetworkProvider
	cfg     Config
}

// New returns an UploadConditions backed by the given providers. Any
// provider may be nil, in which case it never blocks.
func New(battery BatteryProvider, power PowerModeProvider, network NetworkProvider, cfg Config) *UploadConditions {
	return &UploadConditions{battery: battery, power: power, network: network, cfg: cfg}
}

// Blockers returns every precondition currently failing. An empty
// slice means the upload worker may proceed.
func (c *UploadConditions) Blockers() []Blocker {
	var blockers []Blocker

	if c.network != nil && !c.network.Reachable() {
		blockers = append(blockers, BlockerNoNetwork)
	}
	if c.power != nil && c.power.LowPowerModeEnabled() && !c.batteryFull() {
		blockers = append(blockers, BlockerLowPowerMode)
	}
	if c.battery != nil {
		st := c.battery.BatteryStatus()
		if !st.IsCharging && st.Level >= 0 && st.Level < c.cfg.MinBatteryLevel {
			blockers = append(blockers, BlockerLowBattery)
		}
	}
	return blockers
}

// batteryFull reports whether the battery is at capacity: the
// exception spec.md §4.4 carves out for LowPowerMode, so a device left
// plugged in after reaching 100% doesn't stall its uploads forever
// just because the OS still reports low power mode as enabled.
func (c *UploadConditions) batteryFull() bool {
	if c.battery == nil {
		return false
	}
	st := c.battery.BatteryStatus()
	return st.IsCharging && st.Level >= 1.0
}
