// Package datafile implements the platform-neutral, append-only file
// abstraction each feature directory is built from. A file's name is
// its creation timestamp in milliseconds: names therefore totally
// order files by creation time and no sidecar index is needed.
package datafile

import (
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"
)

// AgeEpoch is the age assigned to a file whose name cannot be parsed
// as a timestamp. It sorts as the oldest possible file, so orchestration
// deletes it on the next pass rather than getting stuck on it forever.
const AgeEpoch = time.Duration(1<<63 - 1)

// NameForTimestamp formats a creation time into a file name.
func NameForTimestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// ParseName recovers the creation time encoded in a file name.
// ok is false for any name that isn't a plain decimal integer.
func ParseName(name string) (t time.Time, ok bool) {
	ms, err := strconv.ParseInt(name, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// AgeOf returns how old a file named 'name' is, as measured from its
// name rather than filesystem mtime (robust against clock skew across
// app lifetimes, per spec). Unparseable names are "infinitely" old.
func AgeOf(name string, now time.Time) time.Duration {
	t, ok := ParseName(name)
	if !ok {
		return AgeEpoch
	}
	age := now.Sub(t)
	if age < 0 {
		return 0
	}
	return age
}

// SanitizeFeatureName normalizes a product-supplied feature name (e.g.
// "rum-ios") into a form safe to use as a single path component,
// mirroring the teacher's own filename normalization via NFC.
func SanitizeFeatureName(name string) string {
	n := norm.NFC.String(name)
	out := make([]rune, 0, len(n))
	for _, r := range n {
		switch {
		case r == '/' || r == '\\' || r == 0:
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "feature"
	}
	return string(out)
}
