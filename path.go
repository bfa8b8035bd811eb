package dynlib

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolvePath turns p into an absolute canonical path. A relative p is joined onto cwd first,
// an empty cwd means the process working directory.
//
// The target must exist: symlinks and '.'/'..' segments are evaluated against the real filesystem.
func ResolvePath(p, cwd string) (r string, err error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrPath)
	}
	if !filepath.IsAbs(p) {
		if cwd == "" {
			if cwd, err = os.Getwd(); err != nil {
				return "", fmt.Errorf("%w: %s: %w", ErrPath, p, err)
			}
		}
		p = filepath.Join(cwd, p)
	}
	if r, err = filepath.EvalSymlinks(p); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPath, err)
	}
	if r, err = filepath.Abs(r); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrPath, p, err)
	}
	return
}

// ResolveWd resolve p against current working directory.
func ResolveWd(p string) (string, error) {
	return ResolvePath(p, "")
}
