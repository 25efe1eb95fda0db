// Package batch frames one on-disk file's raw contents into the
// payload an Uploader sends over the wire. Framing (prefix/suffix) is
// applied only at read time: the separator alone is written between
// events by the Writer, so a file left half-written by a crashed
// process is still readable cleanly on the next pass.
package batch

// Format describes how individual event byte strings are joined into
// one transportable payload. Defaults (see DefaultFormat) produce a
// JSON array; traces-style features configure a newline separator for
// NDJSON instead.
type Format struct {
	Prefix    []byte
	Suffix    []byte
	Separator []byte
}

// DefaultFormat renders "[event0,event1,...,eventN]".
func DefaultFormat() Format {
	return Format{Prefix: []byte("["), Suffix: []byte("]"), Separator: []byte(",")}
}

// Batch is the in-memory materialization of a single readable file,
// framed for transport. It carries the identity of the file it came
// from so the caller can later acknowledge it.
type Batch struct {
	FeatureName string
	FileName    string // the underlying file's name, for ack/retry
	Bytes       []byte
	EventCount  int
}

// Frame wraps raw (already separator-joined) file contents with the
// format's prefix and suffix.
func Frame(format Format, fileName, featureName string, raw []byte, eventCount int) Batch {
	out := make([]byte, 0, len(format.Prefix)+len(raw)+len(format.Suffix))
	out = append(out, format.Prefix...)
	out = append(out, raw...)
	out = append(out, format.Suffix...)
	return Batch{FeatureName: featureName, FileName: fileName, Bytes: out, EventCount: eventCount}
}
