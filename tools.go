//go:build go1.20 && !go1.24

package dynlib

import (
	"slices"

	"github.com/pkujhd/goloader"
)

// Inspect display symbols inside a go object file or go archive, sorted.
func Inspect(file, pkg string) (v []string, err error) {
	if pkg == "" {
		pkg = "main"
	}
	if v, err = goloader.Parse(file, pkg); err != nil {
		return
	}
	slices.Sort(v)
	return
}

// Missing dump symbols required by a go object file which the host executable does not provide.
func Missing(file, pkg string) (v []string, err error) {
	if pkg == "" {
		pkg = "main"
	}
	var syms map[string]uintptr
	if syms, err = runtimeSymbols(); err != nil {
		return
	}
	var l *goloader.Linker
	if l, err = goloader.ReadObj(file, pkg); err != nil {
		return
	}
	v = goloader.UnresolvedSymbols(l, syms)
	slices.Sort(v)
	return
}
