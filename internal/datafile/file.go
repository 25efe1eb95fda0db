package datafile

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// File is a handle onto one on-disk event file. It carries no open
// file descriptor between calls: every Append is its own
// open-append-close, so a process crash mid-write leaves the file
// exactly as it was before that call (events already flushed to disk
// stay put, the failed append is simply absent).
type File struct {
	dir  string
	Name string // creation timestamp, decimal milliseconds
}

// New returns a File for the given name inside dir, without touching
// disk. Use Append/Stat/Remove to interact with it.
func New(dir, name string) File {
	return File{dir: dir, Name: name}
}

// Path is the absolute path of the underlying file.
func (f File) Path() string {
	return filepath.Join(f.dir, f.Name)
}

// Age reports how old the file is, derived from its name.
func (f File) Age(now time.Time) time.Duration {
	return AgeOf(f.Name, now)
}

// Size returns the current file size, or 0 if it doesn't exist yet.
func (f File) Size() (int64, error) {
	fi, err := os.Stat(f.Path())
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", f.Path())
	}
	return fi.Size(), nil
}

// Exists reports whether the file is still present on disk.
func (f File) Exists() bool {
	_, err := os.Stat(f.Path())
	return err == nil
}

// Append opens the file (creating it if necessary), writes b, and
// closes it. A failed Append never leaves a partial write visible:
// if os.File.Write fails part-way, the file is truncated back to the
// size it had before the call (best-effort: a failure of that
// truncate is not reported separately).
func (f File) Append(b []byte) error {
	fh, err := os.OpenFile(f.Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return errors.Wrapf(err, "open %s for append", f.Path())
	}
	defer fh.Close()
	fi, err := fh.Stat()
	if err != nil {
		return errors.Wrapf(err, "stat %s", f.Path())
	}
	if _, err := fh.Write(b); err != nil {
		_ = fh.Truncate(fi.Size())
		return errors.Wrapf(err, "write %s", f.Path())
	}
	return nil
}

// ReadAll reads the entire file into memory.
func (f File) ReadAll() ([]byte, error) {
	b, err := os.ReadFile(f.Path())
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", f.Path())
	}
	return b, nil
}

// Remove deletes the file. Missing files are not an error (another
// actor may have already removed it; such races are swallowed per spec).
func (f File) Remove() error {
	err := os.Remove(f.Path())
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", f.Path())
	}
	return nil
}
