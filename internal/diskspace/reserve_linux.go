//go:build linux

package diskspace

import (
	"os"

	"golang.org/x/sys/unix"
)

// reserve fallocates the file's data blocks up front, the same
// mechanism the teacher's protofile/file_linux.go used via raw
// syscall.Fallocate; this uses golang.org/x/sys/unix instead, the
// portable wrapper the rest of the retrieved corpus reaches for.
// FALLOC_FL_KEEP_SIZE leaves the file's visible size unchanged, so
// appends still land at the end of the real contents.
func reserve(f *os.File, numBytes int64) error {
	err := unix.Fallocate(int(f.Fd()), unix.FALLOC_FL_KEEP_SIZE, 0, numBytes)
	if err == unix.EOPNOTSUPP || err == unix.ENOSYS {
		return nil
	}
	return err
}
