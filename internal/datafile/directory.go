package datafile

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Directory is the platform-neutral, per-feature append-only storage
// area. All files in it are named by creation timestamp (see name.go),
// which totally orders them without any sidecar index.
type Directory struct {
	Root string
}

// Open ensures the directory exists on disk and returns a handle to it.
func Open(root string) (*Directory, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, errors.Wrapf(err, "create feature directory %s", root)
	}
	return &Directory{Root: root}, nil
}

// Entry pairs a File with its size, as observed during a single
// directory listing (avoids re-stat'ing for every comparison).
type Entry struct {
	File File
	Size int64
}

// List returns every file in the directory, oldest name first.
// Unparseable names sort first (they are treated as epoch-aged, see
// AgeOf) so callers that walk oldest-to-newest evict them first too.
func (d *Directory) List() ([]Entry, error) {
	des, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, errors.Wrapf(err, "read directory %s", d.Root)
	}
	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		fi, err := de.Info()
		if err != nil {
			// Raced with a concurrent delete between ReadDir and Info: skip.
			continue
		}
		entries = append(entries, Entry{File: New(d.Root, de.Name()), Size: fi.Size()})
	}
	sort.Slice(entries, func(i, j int) bool {
		ti, oki := ParseName(entries[i].File.Name)
		tj, okj := ParseName(entries[j].File.Name)
		if !oki && !okj {
			return entries[i].File.Name < entries[j].File.Name
		}
		if !oki {
			return true
		}
		if !okj {
			return false
		}
		return ti.Before(tj)
	})
	return entries, nil
}

// AggregateSize sums the size of every file currently in the directory.
func (d *Directory) AggregateSize() (int64, error) {
	entries, err := d.List()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	return total, nil
}

// Purge evicts the oldest files, FIFO, until the aggregate directory
// size is strictly below maxDirectorySize. It is invoked only when a
// new writable file is about to be created (spec: cold path, keeps
// the hot append path free of extra I/O). Returns the number of files
// removed.
func (d *Directory) Purge(maxDirectorySize int64) (int, error) {
	entries, err := d.List()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	removed := 0
	for i := 0; i < len(entries) && total >= maxDirectorySize; i++ {
		if err := entries[i].File.Remove(); err != nil {
			return removed, err
		}
		total -= entries[i].Size
		removed++
	}
	return removed, nil
}

// DeleteExpired removes every file older than maxAge, as measured by
// name (see AgeOf), and returns the surviving entries in the same
// oldest-first order List would have produced.
func (d *Directory) DeleteExpired(maxAge time.Duration, now time.Time) ([]Entry, error) {
	entries, err := d.List()
	if err != nil {
		return nil, err
	}
	survivors := entries[:0]
	for _, e := range entries {
		if e.File.Age(now) > maxAge {
			if err := e.File.Remove(); err != nil {
				return nil, err
			}
			continue
		}
		survivors = append(survivors, e)
	}
	return survivors, nil
}

// DeleteAll removes every file currently in the directory.
func (d *Directory) DeleteAll() error {
	entries, err := d.List()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := e.File.Remove(); err != nil {
			return err
		}
	}
	return nil
}

// Path joins a name onto the directory root.
func (d *Directory) Path(name string) string {
	return filepath.Join(d.Root, name)
}
