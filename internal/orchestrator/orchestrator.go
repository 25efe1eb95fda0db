// Package orchestrator is the single source of truth for which file in
// a feature's directory is currently writable, which is readable next,
// and for the directory's size/age/count hygiene. See spec.md §4.1.
package orchestrator

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"arcspan.dev/src/telemetry.pipeline/internal/datafile"
	"arcspan.dev/src/telemetry.pipeline/internal/telemetry"
)

// ErrTooLarge is returned by GetWritableFile when writeSize exceeds
// Config.MaxObjectSize.
var ErrTooLarge = errors.New("orchestrator: object exceeds maxObjectSize")

// Config holds the size/age/count caps spec.md §6 calls "recognized
// options". minFileAgeForRead must be greater than maxFileAgeForWrite
// (see spec.md §5) or the Reader could race the Writer on one file;
// this is the caller's responsibility to enforce (see pipeline.Config.Validate).
type Config struct {
	MaxObjectSize      int64
	MaxFileSize        int64
	MaxFileAgeForWrite time.Duration
	MinFileAgeForRead  time.Duration
	MaxFileAgeForRead  time.Duration
	MaxObjectsInFile   int
	MaxDirectorySize   int64
}

// Clock abstracts time.Now for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Orchestrator implements FilesOrchestrator (C2).
type Orchestrator struct {
	dir     *datafile.Directory
	cfg     Config
	clock   Clock
	feature string
	tel     telemetry.Telemetry

	mu        sync.Mutex
	lastName  string
	usesCount int
}

// New returns an Orchestrator rooted at dir.
func New(dir *datafile.Directory, cfg Config, clock Clock, feature string, tel telemetry.Telemetry) *Orchestrator {
	if clock == nil {
		clock = systemClock{}
	}
	if tel == nil {
		tel = telemetry.Noop{}
	}
	return &Orchestrator{dir: dir, cfg: cfg, clock: clock, feature: feature, tel: tel}
}

// GetWritableFile returns a file the caller may append writeSize bytes
// to, per spec.md §4.1: reuse the last-handed-out file if it still
// qualifies, else purge the directory and start a new one.
func (o *Orchestrator) GetWritableFile(writeSize int64) (datafile.File, error) {
	if writeSize > o.cfg.MaxObjectSize {
		return datafile.File{}, ErrTooLarge
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clock.Now()
	if o.lastName != "" {
		f := datafile.New(o.dir.Root, o.lastName)
		size, err := f.Size()
		qualifies := err == nil &&
			f.Exists() &&
			f.Age(now) <= o.cfg.MaxFileAgeForWrite &&
			size+writeSize <= o.cfg.MaxFileSize &&
			o.usesCount < o.cfg.MaxObjectsInFile
		if qualifies {
			// Counted per hand-out, never decremented when the caller's
			// write then fails: the count can overstate the file's
			// objects but never understate them.
			o.usesCount++
			return f, nil
		}
	}

	if _, err := o.dir.Purge(o.cfg.MaxDirectorySize); err != nil {
		o.tel.IOError(o.feature, "purge", err)
	}

	name := datafile.NameForTimestamp(now)
	o.lastName = name
	o.usesCount = 1
	return datafile.New(o.dir.Root, name), nil
}

// GetReadableFile returns the oldest file eligible for read, per
// spec.md §4.1: age in [minFileAgeForRead, maxFileAgeForRead], name not
// in exclude. Files older than maxFileAgeForRead are deleted first.
func (o *Orchestrator) GetReadableFile(exclude map[string]bool) (datafile.File, bool) {
	now := o.clock.Now()
	survivors, err := o.dir.DeleteExpired(o.cfg.MaxFileAgeForRead, now)
	if err != nil {
		o.tel.IOError(o.feature, "delete_expired", err)
		return datafile.File{}, false
	}
	for _, e := range survivors {
		if exclude[e.File.Name] {
			continue
		}
		age := e.File.Age(now)
		if age < o.cfg.MinFileAgeForRead {
			continue
		}
		return e.File, true
	}
	return datafile.File{}, false
}

// Delete best-effort removes the named file from this orchestrator's
// directory; failures are reported, not surfaced.
func (o *Orchestrator) Delete(name string) {
	f := datafile.New(o.dir.Root, name)
	if err := f.Remove(); err != nil {
		o.tel.IOError(o.feature, "delete", err)
	}
}

// DeleteAllReadable removes every file in the directory.
func (o *Orchestrator) DeleteAllReadable() error {
	return o.dir.DeleteAll()
}
