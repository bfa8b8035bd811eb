//go:build unix

package perf

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// RawStdout open a duplicate of the standard output descriptor, without the buffering of any writer above it.
// The caller owns the file and closes it, fd 1 itself stays open.
func RawStdout() (*os.File, error) {
	fd, err := unix.Dup(unix.Stdout)
	if err != nil {
		return nil, fmt.Errorf("dup stdout: %w", err)
	}
	unix.CloseOnExec(fd)
	return os.NewFile(uintptr(fd), "/dev/stdout"), nil
}
