//go:build !unix && !windows

package perf

import (
	"errors"
	"os"
)

// RawStdout is unavailable without a unix descriptor or a windows handle.
func RawStdout() (*os.File, error) {
	return nil, errors.New("raw stdout unsupported")
}
