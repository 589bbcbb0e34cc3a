package parser

import (
	"fmt"
	"io"
	"os"
)

// spoolFile copies r into a temp file for libraries that need random access.
// The returned file is positioned at the start; release closes and removes it.
func spoolFile(r io.Reader, pattern string) (f *os.File, size int64, release func(), err error) {
	f, err = os.CreateTemp("", pattern)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("spool input: %w", err)
	}
	release = func() {
		f.Close()
		os.Remove(f.Name())
	}

	if size, err = io.Copy(f, r); err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		release()
		return nil, 0, nil, fmt.Errorf("spool input: %w", err)
	}
	return f, size, release, nil
}
