package logging

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes to every writer, collecting errors instead of
// stopping at the first failure.
type CombinedWriter struct {
	Writers []io.Writer
}

// NewCombinedWriter fans writes out to writers in order.
func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{Writers: writers}
}

func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var (
		n   int
		err error
	)
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		n = written
	}
	return n, err
}
