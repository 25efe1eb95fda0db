package pipeline

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"arcspan.dev/src/telemetry.pipeline/internal/condition"
	"arcspan.dev/src/telemetry.pipeline/internal/datafile"
	"arcspan.dev/src/telemetry.pipeline/internal/orchestrator"
	"arcspan.dev/src/telemetry.pipeline/internal/reader"
	"arcspan.dev/src/telemetry.pipeline/internal/telemetry"
	"arcspan.dev/src/telemetry.pipeline/internal/worker"
	"arcspan.dev/src/telemetry.pipeline/internal/writer"
)

// Re-exported so callers outside this module don't need to import the
// internal packages by hand to implement or reference these types.
type (
	Uploader          = worker.Uploader
	BatteryProvider   = condition.BatteryProvider
	PowerModeProvider = condition.PowerModeProvider
	NetworkProvider   = condition.NetworkProvider
)

// Feature is one named, independently configured event pipeline: its
// own directory, its own write/read/upload cadence, its own Delay.
// All exported methods are safe to call from any goroutine.
type Feature struct {
	name string
	cfg  Config

	orch  *orchestrator.Orchestrator
	w     *writer.Writer
	r     *reader.Reader
	delay *condition.Delay
	work  *worker.Worker

	cancel context.CancelFunc
	runDone chan struct{}
}

// Providers bundles the device-health inputs a Feature gates its
// upload attempts on. Any field may be nil, in which case that
// precondition never blocks.
type Providers struct {
	Battery BatteryProvider
	Power   PowerModeProvider
	Network NetworkProvider
}

// NewFeature builds a Feature named name, storing files under
// cfg.Directory, uploading through uploader, and gated by providers.
// It does not start the background worker; call Run for that.
func NewFeature(name string, cfg Config, uploader Uploader, providers Providers, tel telemetry.Telemetry) (*Feature, error) {
	if name == "" {
		return nil, errors.New("pipeline: feature name must not be empty")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tel == nil {
		tel = telemetry.Noop{}
	}

	sanitized := datafile.SanitizeFeatureName(name)
	dir, err := datafile.Open(filepath.Join(cfg.Directory, sanitized))
	if err != nil {
		return nil, errors.Wrapf(err, "open directory for feature %s", name)
	}

	orchCfg := orchestrator.Config{
		MaxObjectSize:      cfg.MaxObjectSize,
		MaxFileSize:        cfg.MaxFileSize,
		MaxFileAgeForWrite: cfg.MaxFileAgeForWrite,
		MinFileAgeForRead:  cfg.MinFileAgeForRead,
		MaxFileAgeForRead:  cfg.MaxFileAgeForRead,
		MaxObjectsInFile:   cfg.MaxObjectsInFile,
		MaxDirectorySize:   cfg.MaxDirectorySize,
	}
	orch := orchestrator.New(dir, orchCfg, nil, name, tel)

	w := writer.New(orch, cfg.BatchFormat, tel, name, cfg.MaxFileSize)
	r := reader.New(orch, cfg.BatchFormat, tel, name)
	delay := condition.NewDelay(cfg.DelayPreset)
	conditions := condition.New(providers.Battery, providers.Power, providers.Network, condition.Config{MinBatteryLevel: cfg.MinBatteryLevel})

	wk := worker.New(r, conditions, delay, uploader, tel, name)

	return &Feature{
		name:  name,
		cfg:   cfg,
		orch:  orch,
		w:     w,
		r:     r,
		delay: delay,
		work:  wk,
	}, nil
}

// Write persists one event's bytes for this feature. It never blocks
// on network I/O and never returns an error the caller must act on:
// every failure is reported through the Telemetry given to NewFeature
// and then discarded, per spec.md §4.2.
func (f *Feature) Write(event []byte) {
	f.w.Write(event)
}

// Run starts the feature's background upload worker. It blocks until
// ctx is canceled or CancelSync is called; call it in its own
// goroutine.
func (f *Feature) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.runDone = make(chan struct{})
	defer close(f.runDone)
	f.work.Run(ctx)
}

// FlushSync drains the feature's backlog on the worker goroutine,
// bypassing the current Delay and the device-health blockers: every
// eligible batch is uploaded and deleted whatever the outcome. It
// waits for the drain to finish or for ctx to be canceled.
func (f *Feature) FlushSync(ctx context.Context) {
	f.work.FlushSync(ctx)
}

// CancelSync stops the background worker and blocks until it has
// fully stopped. Per spec.md §4.5, cancellation only guarantees no
// further local upload attempts; it does not touch the on-disk
// backlog, which remains intact for a later Feature instance (e.g.
// after the host process restarts) to pick up and upload.
func (f *Feature) CancelSync() {
	f.work.CancelSync()
	if f.cancel != nil {
		f.cancel()
	}
}

// DiscardBacklog deletes every file currently on disk for this
// feature, including ones never uploaded or acknowledged. It is not
// called automatically by CancelSync or anything else; a host calls
// it explicitly when a feature's backlog is no longer wanted (e.g.
// the user opted out of this kind of telemetry entirely), not merely
// paused.
func (f *Feature) DiscardBacklog() error {
	return f.r.DiscardAll()
}
