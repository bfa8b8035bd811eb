//go:build windows

package dynlib

import (
	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

// shared is a DLL mapped by LoadLibrary.
type shared struct {
	handle windows.Handle
}

func openShared(path string) (library, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return nil, err
	}
	return &shared{h}, nil
}

func (so *shared) lookup(sym string) (uintptr, error) {
	return windows.GetProcAddress(so.handle, sym)
}

func (so *shared) bind(fptr any, addr uintptr) {
	purego.RegisterFunc(fptr, addr)
}

func (so *shared) close() error {
	return windows.FreeLibrary(so.handle)
}

func (so *shared) kind() string {
	return "shared"
}
