// Package condition implements C5: the device-health blockers that
// gate an upload attempt, and the adaptive Delay between attempts. See
// spec.md §4.4.
package condition

import (
	"sync"
	"time"
)

// DelayPreset fixes the multiplicative step and bounds of a Delay.
// spec.md leaves the exact multipliers and bounds to the integrator;
// these three named presets mirror the "low", "average" and
// "frequent" upload cadences most mobile telemetry SDKs expose.
type DelayPreset struct {
	Min        time.Duration
	Max        time.Duration
	IncreaseBy float64 // multiplier applied on Increase, must be > 1
	DecreaseBy float64 // multiplier applied on Decrease, must be in (0, 1)
}

var (
	// PresetLow uploads infrequently: long floor, long ceiling.
	PresetLow = DelayPreset{Min: 5 * time.Minute, Max: 2 * time.Hour, IncreaseBy: 2.0, DecreaseBy: 0.5}
	// PresetAverage is the default cadence.
	PresetAverage = DelayPreset{Min: 30 * time.Second, Max: 30 * time.Minute, IncreaseBy: 2.0, DecreaseBy: 0.5}
	// PresetFrequent uploads aggressively: short floor, short ceiling.
	PresetFrequent = DelayPreset{Min: 5 * time.Second, Max: 5 * time.Minute, IncreaseBy: 1.5, DecreaseBy: 0.7}
)

// Delay tracks the wait between upload attempts for one feature. It
// starts at Min and moves multiplicatively, clamped to [Min, Max]:
// Increase never decreases the current value and Decrease never
// increases it, even at the clamp boundaries.
type Delay struct {
	mu      sync.Mutex
	preset  DelayPreset
	current time.Duration
}

// NewDelay returns a Delay starting at preset.Min.
func NewDelay(preset DelayPreset) *Delay {
	return &Delay{preset: preset, current: preset.Min}
}

// Current returns the present delay value.
func (d *Delay) Current() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Increase multiplies the current delay by the preset's IncreaseBy
// factor, clamped to Max. Called after a retryable failure and after
// a tick that uploads nothing.
func (d *Delay) Increase() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := time.Duration(float64(d.current) * d.preset.IncreaseBy)
	if next > d.preset.Max {
		next = d.preset.Max
	}
	if next < d.current {
		next = d.current
	}
	d.current = next
	return d.current
}

// Decrease multiplies the current delay by the preset's DecreaseBy
// factor, clamped to Min. Called after an upload that needs no retry
// (a success or a permanent failure).
func (d *Delay) Decrease() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := time.Duration(float64(d.current) * d.preset.DecreaseBy)
	if next < d.preset.Min {
		next = d.preset.Min
	}
	if next > d.current {
		next = d.current
	}
	d.current = next
	return d.current
}

// Reset returns the delay to its floor. No pipeline component calls
// it; flushing a feature leaves the Delay unchanged.
func (d *Delay) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = d.preset.Min
}
