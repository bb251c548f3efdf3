package kfmt

import (
	"bytes"
	"io"
)

// PrefixWriter is an io.Writer that injects Prefix in front of every line
// written to Sink. The prefix for a line is emitted lazily, when its first
// byte arrives, so a trailing newline never produces a dangling prefix.
type PrefixWriter struct {
	Sink   io.Writer
	Prefix []byte

	midLine bool
}

// Write implements io.Writer. The returned count excludes injected
// prefixes.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written int

	for start := 0; start < len(p); {
		if !w.midLine {
			if _, err := w.Sink.Write(w.Prefix); err != nil {
				return written, err
			}
			w.midLine = true
		}

		end := len(p)
		if nl := bytes.IndexByte(p[start:], '\n'); nl >= 0 {
			end = start + nl + 1
			w.midLine = false
		}

		n, err := w.Sink.Write(p[start:end])
		written += n
		if err != nil {
			return written, err
		}
		start = end
	}

	return written, nil
}

// Reset forgets any partially written line.
func (w *PrefixWriter) Reset() {
	w.midLine = false
}
