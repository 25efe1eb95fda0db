//go:build !linux

package diskspace

import "os"

// reserve falls back to a plain truncate, as the teacher's
// protofile/file_else.go does for non-Linux platforms. This can
// produce a sparse file, which is fine: it's an advisory reservation.
func reserve(f *os.File, numBytes int64) error {
	return f.Truncate(numBytes)
}
