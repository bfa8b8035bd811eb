//go:build go1.20 && !go1.24

package dynlib

import (
	"maps"
	"sync"

	"github.com/pkujhd/goloader"
)

var (
	gob     map[string]uintptr
	gobOnce sync.Once
	gobErr  error
	gobMu   sync.Mutex
)

// runtimeSymbols create a copy of the symbols exported by the host executable, go objects link against them.
func runtimeSymbols() (map[string]uintptr, error) {
	gobOnce.Do(func() {
		gob = make(map[string]uintptr)
		gobErr = goloader.RegSymbol(gob)
	})
	if gobErr != nil {
		return nil, gobErr
	}
	gobMu.Lock()
	defer gobMu.Unlock()
	return maps.Clone(gob), nil
}

// UseGlobalTypes register types into the host symbols, go objects loaded after may use them
// across the module boundary.
func UseGlobalTypes(types ...any) error {
	if _, err := runtimeSymbols(); err != nil {
		return err
	}
	gobMu.Lock()
	defer gobMu.Unlock()
	goloader.RegTypes(gob, types...)
	return nil
}
