//go:build darwin || freebsd || linux || netbsd

package dynlib

import "github.com/ebitengine/purego"

// shared is a C linkage library mapped by dlopen.
type shared struct {
	handle uintptr
}

func openShared(path string) (library, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}
	return &shared{h}, nil
}

func (so *shared) lookup(sym string) (uintptr, error) {
	return purego.Dlsym(so.handle, sym)
}

func (so *shared) bind(fptr any, addr uintptr) {
	purego.RegisterFunc(fptr, addr)
}

func (so *shared) close() error {
	return purego.Dlclose(so.handle)
}

func (so *shared) kind() string {
	return "shared"
}
