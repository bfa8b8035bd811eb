//go:build windows

package perf

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// RawStdout open a duplicate of the standard output handle, without the buffering of any writer above it.
// The caller owns the file and closes it, the process handle itself stays open.
func RawStdout() (*os.File, error) {
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return nil, fmt.Errorf("get stdout handle: %w", err)
	}
	p := windows.CurrentProcess()
	var dup windows.Handle
	if err = windows.DuplicateHandle(p, h, p, &dup, 0, false, windows.DUPLICATE_SAME_ACCESS); err != nil {
		return nil, fmt.Errorf("duplicate stdout handle: %w", err)
	}
	return os.NewFile(uintptr(dup), "CONOUT$"), nil
}
