package util

import (
	"io"
	"os"
)

type discardCloser struct{}

func (discardCloser) Write(p []byte) (int, error) { return len(p), nil }
func (discardCloser) Close() error                { return nil }

type writeNoCloser struct{ io.Writer }

func (w writeNoCloser) Close() error { return nil }

// OpenOutputFile opens and returns a file for output.
// If filename is "", it returns a WriteCloser that discards everything.
// If filename is "-"/"!", it returns stdout/stderr; its Close() does nothing.
func OpenOutputFile(filename string) (io.WriteCloser, error) {
	switch filename {
	case "":
		return discardCloser{}, nil
	case "-":
		return writeNoCloser{os.Stdout}, nil
	case "!":
		return writeNoCloser{os.Stderr}, nil
	default:
		return os.Create(filename)
	}
}

// Close tries to close a closer, ignoring any error.
// For use with defer.
func Close(c io.Closer) { _ = c.Close() }
