package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"arcspan.dev/src/telemetry.pipeline/internal/batch"
	"arcspan.dev/src/telemetry.pipeline/internal/condition"
)

// Config holds every per-feature tunable spec.md §6 calls a
// "recognized option". DefaultConfig returns one with every field
// set; NewFeature calls Validate and rejects a Config that fails it.
type Config struct {
	// Directory is the root path this feature's files live under. It is
	// created if it doesn't already exist.
	Directory string

	MaxObjectSize      int64
	MaxFileSize        int64
	MaxDirectorySize   int64
	MaxObjectsInFile   int
	MaxFileAgeForWrite time.Duration
	MinFileAgeForRead  time.Duration
	MaxFileAgeForRead  time.Duration

	DelayPreset     condition.DelayPreset
	MinBatteryLevel float64

	BatchFormat batch.Format
}

// DefaultConfig returns sane defaults for a feature rooted at dir,
// tuned for a moderate event volume (PresetAverage delay cadence).
func DefaultConfig(dir string) Config {
	return Config{
		Directory:          dir,
		MaxObjectSize:      256 * 1024,
		MaxFileSize:        4 * 1024 * 1024,
		MaxDirectorySize:   64 * 1024 * 1024,
		MaxObjectsInFile:   500,
		MaxFileAgeForWrite: 15 * time.Second,
		MinFileAgeForRead:  30 * time.Second,
		MaxFileAgeForRead:  18 * time.Hour,
		DelayPreset:        condition.PresetAverage,
		MinBatteryLevel:    0.10,
		BatchFormat:        batch.DefaultFormat(),
	}
}

// Validate checks the invariants spec.md §5 requires between these
// fields, most importantly that a file can never be simultaneously
// eligible for both writing and reading.
func (c Config) Validate() error {
	if c.Directory == "" {
		return errors.New("pipeline: Directory must be set")
	}
	if c.MaxObjectSize <= 0 {
		return errors.New("pipeline: MaxObjectSize must be positive")
	}
	if c.MaxFileSize < c.MaxObjectSize {
		return errors.New("pipeline: MaxFileSize must be >= MaxObjectSize")
	}
	if c.MaxDirectorySize < c.MaxFileSize {
		return errors.New("pipeline: MaxDirectorySize must be >= MaxFileSize")
	}
	if c.MaxObjectsInFile <= 0 {
		return errors.New("pipeline: MaxObjectsInFile must be positive")
	}
	if c.MinFileAgeForRead <= c.MaxFileAgeForWrite {
		return errors.New("pipeline: MinFileAgeForRead must be greater than MaxFileAgeForWrite")
	}
	if c.MaxFileAgeForRead <= c.MinFileAgeForRead {
		return errors.New("pipeline: MaxFileAgeForRead must be greater than MinFileAgeForRead")
	}
	if c.DelayPreset.Min <= 0 || c.DelayPreset.Max < c.DelayPreset.Min {
		return errors.New("pipeline: DelayPreset bounds are invalid")
	}
	return nil
}
